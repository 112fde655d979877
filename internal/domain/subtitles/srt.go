package subtitles

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/virtuadex/videogrep/internal/types"
)

var blankLines = regexp.MustCompile(`\r?\n\s*\r?\n`)

// ParseSRT reads SubRip blocks: an optional sequence number, a
// "start --> end" timestamp line, then zero or more text lines, blocks
// separated by blank lines. A final block without a trailing blank line still
// parses. Empty input yields an empty transcript, not an error.
func ParseSRT(r io.Reader) (types.Transcript, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var out types.Transcript
	lineNum := 1
	body := strings.TrimPrefix(string(raw), "\uFEFF")
	for _, block := range blankLines.Split(body, -1) {
		lines := strings.Split(block, "\n")
		cue, consumed, err := parseBlock(lines, lineNum)
		if err != nil {
			return nil, err
		}
		lineNum += consumed + 1
		if cue != nil {
			out = append(out, *cue)
		}
	}
	return out, nil
}

// parseBlock parses one blank-line-delimited block. Blocks with no timestamp
// line (headers, stray numbering) are skipped rather than rejected.
func parseBlock(lines []string, firstLine int) (*types.Cue, int, error) {
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		if _, err := strconv.Atoi(line); err == nil {
			i++
			continue
		}
		break
	}
	if i >= len(lines) {
		return nil, len(lines), nil
	}

	header := strings.TrimSpace(lines[i])
	if !strings.Contains(header, "-->") {
		return nil, len(lines), nil
	}
	start, end, err := parseCueTimes(header)
	if err != nil {
		return nil, len(lines), &ParseError{Line: firstLine + i, Text: header, Err: err}
	}

	var text []string
	for _, line := range lines[i+1:] {
		if t := strings.TrimSpace(line); t != "" {
			text = append(text, t)
		}
	}
	return &types.Cue{
		Start:   start,
		End:     end,
		Content: strings.Join(text, " "),
	}, len(lines), nil
}

func parseCueTimes(line string) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing --> separator")
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// Cue settings may trail the end timestamp ("align:start position:0%").
	endFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp")
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
