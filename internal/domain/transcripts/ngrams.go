package transcripts

import (
	"iter"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Tokens are cue text split on whitespace and sentence punctuation; word-level
// timing, when a transcript has it, is used verbatim instead.
var tokenSplit = regexp.MustCompile(`[.?!,:"]+\s*|\s+`)

// Ngrams returns a lazy sequence of n-token windows over the words of the
// given media files' transcripts, in file-then-cue order. Windows may span
// cue boundaries. Files without a usable transcript are skipped. The sequence
// is restartable: each range re-reads the transcripts.
func Ngrams(files []string, n int, log zerolog.Logger) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if n < 1 {
			return
		}
		var words []string
		for _, file := range files {
			transcript, err := Parse(file, "")
			if err != nil {
				log.Warn().Str("file", file).Err(err).Msg("skipping for ngrams")
				continue
			}
			for _, cue := range transcript {
				if len(cue.Words) > 0 {
					for _, w := range cue.Words {
						words = append(words, w.Word)
					}
					continue
				}
				for _, tok := range tokenSplit.Split(cue.Content, -1) {
					if tok != "" {
						words = append(words, tok)
					}
				}
			}
		}
		for i := 0; i+n <= len(words); i++ {
			window := make([]string, n)
			copy(window, words[i:i+n])
			if !yield(window) {
				return
			}
		}
	}
}

// NgramCount is one n-gram with its frequency.
type NgramCount struct {
	Gram  string
	Count int
}

// CountNgrams drains a window sequence into frequency counts, most frequent
// first; ties break alphabetically so output order is stable.
func CountNgrams(seq iter.Seq[[]string]) []NgramCount {
	counts := map[string]int{}
	for window := range seq {
		counts[strings.Join(window, " ")]++
	}
	out := make([]NgramCount, 0, len(counts))
	for gram, count := range counts {
		out = append(out, NgramCount{Gram: gram, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Gram < out[j].Gram
	})
	return out
}
