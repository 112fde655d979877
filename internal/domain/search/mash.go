package search

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/virtuadex/videogrep/internal/domain/transcripts"
	"github.com/virtuadex/videogrep/internal/types"
)

var mashPunct = regexp.MustCompile(`[.?!,:"]+`)

type pooledWord struct {
	file string
	word types.Word
}

// searchMash pools every word from every input, then picks one uniformly
// random occurrence per query token. A token with zero matches anywhere is
// logged and skipped, so the result may hold fewer segments than the queries
// had tokens.
func (e *Engine) searchMash(files, queries []string, opts Options) ([]types.Segment, error) {
	var pool []pooledWord
	for _, file := range files {
		transcript, err := transcripts.Parse(file, opts.Prefer)
		if err != nil {
			e.log.Warn().Str("file", file).Err(err).Msg("skipping file")
			continue
		}
		if !transcript.HasWords() {
			e.log.Warn().Str("file", file).Msg("no word-level timestamps, skipping for mash")
			continue
		}
		for _, w := range transcript.AllWords() {
			pool = append(pool, pooledWord{file: file, word: w})
		}
	}
	if len(pool) == 0 {
		e.log.Warn().Msg("no word-level timestamps in any input")
		return nil, nil
	}

	var out []types.Segment
	for _, query := range queries {
		for _, token := range strings.Fields(query) {
			want := strings.ToLower(token)
			var matches []pooledWord
			for _, pw := range pool {
				got := strings.ToLower(mashPunct.ReplaceAllString(pw.word.Word, ""))
				if got == want {
					matches = append(matches, pw)
				}
			}
			if len(matches) == 0 {
				e.log.Warn().Str("word", token).Msg("not found in any transcript")
				continue
			}
			pick := matches[e.intn(len(matches))]
			out = append(out, types.Segment{
				File:    pick.file,
				Start:   pick.word.Start,
				End:     pick.word.End,
				Content: pick.word.Word,
			})
		}
	}
	return out, nil
}

func (e *Engine) intn(n int) int {
	if e.rand != nil {
		return e.rand.Intn(n)
	}
	return rand.Intn(n)
}
