package compose

import "github.com/virtuadex/videogrep/internal/types"

// Silences returns the gaps between consecutive cues of a transcript as
// segments, for building inverse supercuts out of the parts nobody spoke in.
// Gaps shorter than minDuration are dropped.
func Silences(file string, transcript types.Transcript, minDuration float64) []types.Segment {
	var out []types.Segment
	for i := 1; i < len(transcript); i++ {
		gapStart := transcript[i-1].End
		gapEnd := transcript[i].Start
		if gapEnd-gapStart < minDuration || gapEnd <= gapStart {
			continue
		}
		out = append(out, types.Segment{
			File:  file,
			Start: gapStart,
			End:   gapEnd,
		})
	}
	return out
}
