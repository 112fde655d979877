package subtitles

import (
	"strconv"
	"strings"

	"github.com/virtuadex/videogrep/internal/types"
)

// RenderVTT writes a WebVTT document for a finalized composition. Cue times
// are re-based to the supercut timeline: each segment starts where the
// previous one ended, so the rendered captions line up with the exported
// video rather than with the source files.
func RenderVTT(segments []types.Segment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	elapsed := 0.0
	for _, s := range segments {
		dur := s.End - s.Start
		if dur < 0 {
			dur = 0
		}
		b.WriteString(FormatTimestamp(elapsed))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(elapsed + dur))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n\n")
		elapsed += dur
	}
	return b.String()
}

// RenderSRT writes the same composition as SubRip, for players that do not
// take WebVTT.
func RenderSRT(segments []types.Segment) string {
	var b strings.Builder
	elapsed := 0.0
	for i, s := range segments {
		dur := s.End - s.Start
		if dur < 0 {
			dur = 0
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("\n")
		b.WriteString(srtTime(elapsed))
		b.WriteString(" --> ")
		b.WriteString(srtTime(elapsed + dur))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n\n")
		elapsed += dur
	}
	return b.String()
}

func srtTime(seconds float64) string {
	return strings.Replace(FormatTimestamp(seconds), ".", ",", 1)
}
