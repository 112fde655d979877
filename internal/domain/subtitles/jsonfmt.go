package subtitles

import (
	"encoding/json"
	"io"

	"github.com/virtuadex/videogrep/internal/types"
)

// ParseJSON reads the pre-timestamped format written by the transcriber: a
// plain array of cues, optionally with word timing. This is the canonical
// cached representation, so no time-string parsing happens here.
func ParseJSON(r io.Reader) (types.Transcript, error) {
	var out types.Transcript
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return types.Transcript{}, nil
		}
		return nil, err
	}
	return out, nil
}
