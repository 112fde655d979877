package exporter

import (
	"fmt"
	"os"
	"strings"

	"github.com/virtuadex/videogrep/internal/types"
)

// writeM3U emits a VLC-compatible playlist where each entry plays just its
// segment's span of the source file.
func writeM3U(segments []types.Segment, outPath string) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, s := range segments {
		b.WriteString("#EXTINF:\n")
		fmt.Fprintf(&b, "#EXTVLCOPT:start-time=%g\n", s.Start)
		fmt.Fprintf(&b, "#EXTVLCOPT:stop-time=%g\n", s.End)
		b.WriteString(s.File)
		b.WriteString("\n")
	}
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

// writeMPVEDL emits mpv's edit decision list: absolute path, start, duration.
func writeMPVEDL(segments []types.Segment, outPath string) error {
	var b strings.Builder
	b.WriteString("# mpv EDL v0\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "%s,%g,%g\n", mustAbs(s.File), s.Start, s.End-s.Start)
	}
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

// EDLURI builds the edl:// pseudo-URI mpv accepts for in-place previewing of
// a composition without writing any file.
func EDLURI(segments []types.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, fmt.Sprintf("%s,%g,%g", mustAbs(s.File), s.Start, s.End-s.Start))
	}
	return "edl://" + strings.Join(lines, ";")
}
