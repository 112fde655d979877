package transcripts

import (
	"fmt"
	"os"
	"strings"

	"github.com/virtuadex/videogrep/internal/domain/subtitles"
	"github.com/virtuadex/videogrep/internal/types"
)

// Parse finds and parses the transcript for a media file. The extension of
// the located file picks the parser. Returns types.ErrTranscriptNotFound when
// the locator comes up empty, so callers can decide to transcribe instead.
func Parse(mediaPath string, prefer string) (types.Transcript, error) {
	sub, ok := Find(mediaPath, prefer)
	if !ok {
		return nil, fmt.Errorf("%s: %w", mediaPath, types.ErrTranscriptNotFound)
	}
	return ParseFile(sub)
}

// ParseFile parses a transcript file directly, dispatching on its extension.
func ParseFile(path string) (types.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".srt"):
		return subtitles.ParseSRT(f)
	case strings.HasSuffix(path, ".vtt"):
		return subtitles.ParseVTT(f)
	case strings.HasSuffix(path, ".json"):
		return subtitles.ParseJSON(f)
	case strings.HasSuffix(path, ".transcript"):
		return subtitles.ParseSphinx(f)
	}
	return nil, fmt.Errorf("unsupported transcript format: %s", path)
}
