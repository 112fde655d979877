package subtitles

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/virtuadex/videogrep/internal/types"
)

// ParseSphinx reads pocketsphinx alignment output: one "token start end" line
// per recognized token, with silence and utterance markers interspersed. The
// result is plain cues, one per token; this format has no word-level nesting.
func ParseSphinx(r io.Reader) (types.Transcript, error) {
	var out types.Transcript
	lineNum := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		token := fields[0]
		if token == "<s>" || token == "</s>" || token == "<sil>" {
			continue
		}
		start, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Text: line, Err: err}
		}
		end, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Text: line, Err: err}
		}
		// Recognizer tokens carry pronunciation variants like "word(2)".
		if i := strings.IndexByte(token, '('); i > 0 {
			token = token[:i]
		}
		out = append(out, types.Cue{Start: start, End: end, Content: token})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
