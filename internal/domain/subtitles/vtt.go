package subtitles

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/virtuadex/videogrep/internal/types"
)

// WebVTT cue text may interleave per-word timestamps with word spans:
//
//	It's <00:00:00.323><c>the </c><00:00:00.486><c>last </c>
//
// Each inline timestamp closes the word before it and opens the word after
// it; the first word opens at the cue start and the last closes at the cue
// end.
var (
	inlineStamp = regexp.MustCompile(`<(\d{2}:\d{2}:\d{2}[.,]\d{3})>`)
	voiceTags   = regexp.MustCompile(`</?[^<>]*>`)
)

type vttState int

const (
	vttAwaitingCue vttState = iota // header lines, cue identifiers, NOTE blocks
	vttReadingText                 // inside a cue, accumulating text lines
)

// ParseVTT reads a WebVTT stream, including the word-cued variant produced by
// caption auto-generators. Cues without inline word timing come back as plain
// cues; a final cue without a trailing blank line still parses.
func ParseVTT(r io.Reader) (types.Transcript, error) {
	var (
		out     types.Transcript
		cur     *types.Cue
		text    []string
		state   = vttAwaitingCue
		lineNum int
	)

	flush := func() {
		if cur == nil {
			return
		}
		fillCue(cur, text)
		out = append(out, *cur)
		cur = nil
		text = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(strings.TrimPrefix(sc.Text(), "\uFEFF"), "\r")

		switch {
		case strings.Contains(line, "-->"):
			flush()
			start, end, err := parseCueTimes(line)
			if err != nil {
				return nil, &ParseError{Line: lineNum, Text: line, Err: err}
			}
			cur = &types.Cue{Start: start, End: end}
			state = vttReadingText
		case line == "":
			// Auto-generated captions often pad a blank line between the
			// timestamp and the cue text; only a cue that already has text
			// ends here. An empty cue still flushes at the next header or EOF.
			if cur == nil || len(text) > 0 {
				flush()
				state = vttAwaitingCue
			}
		case state == vttReadingText:
			text = append(text, line)
		default:
			// WEBVTT magic, Kind/Language headers, NOTE blocks, cue ids.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

// fillCue populates content and, when inline timestamps are present, the
// word-level timing of a cue from its accumulated text lines.
func fillCue(cue *types.Cue, lines []string) {
	var plain []string
	for _, line := range lines {
		if !inlineStamp.MatchString(line) {
			if t := strings.TrimSpace(voiceTags.ReplaceAllString(line, "")); t != "" {
				plain = append(plain, t)
			}
			continue
		}
		cue.Words = append(cue.Words, cueLineWords(cue, line)...)
	}

	if len(cue.Words) > 0 {
		// The last inline word has no closing marker; the cue's own end bounds it.
		cue.Words[len(cue.Words)-1].End = cue.End
		var tokens []string
		for _, w := range cue.Words {
			tokens = append(tokens, w.Word)
		}
		cue.Content = strings.Join(tokens, " ")
		return
	}
	cue.Content = strings.Join(plain, " ")
}

// cueLineWords splits one word-cued line on its inline timestamps and pairs
// each text chunk with the stamps that bracket it. The first chunk opens at
// the cue start; every later chunk opens at the stamp preceding it. Each word
// provisionally closes at the next stamp (the caller fixes up the last one).
func cueLineWords(cue *types.Cue, line string) []types.Word {
	chunks := inlineStamp.Split(line, -1)
	stamps := inlineStamp.FindAllStringSubmatch(line, -1)

	var out []types.Word
	prev := cue.Start
	if n := len(cue.Words); n > 0 {
		prev = cue.Words[n-1].End
	}
	for i, chunk := range chunks {
		word := strings.TrimSpace(voiceTags.ReplaceAllString(chunk, ""))
		end := cue.End
		if i < len(stamps) {
			if t, err := ParseTimestamp(stamps[i][1]); err == nil {
				end = t
			}
		}
		if word != "" {
			out = append(out, types.Word{Word: word, Start: prev, End: end})
		}
		prev = end
	}
	return out
}
