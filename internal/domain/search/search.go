package search

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/virtuadex/videogrep/internal/domain/transcripts"
	"github.com/virtuadex/videogrep/internal/ports"
	"github.com/virtuadex/videogrep/internal/types"
)

// Search strategies.
const (
	Sentence = "sentence" // case-insensitive regex per cue
	Fragment = "fragment" // word-window match over word-level timing
	Mash     = "mash"     // random single-word sampling from the pooled vocabulary
	Semantic = "semantic" // embedding similarity per cue
)

// DefaultThreshold is the minimum cosine similarity for a semantic hit.
const DefaultThreshold = 0.4

// Options tune a single Search call.
type Options struct {
	Prefer       string  // preferred transcript extension
	Threshold    float64 // semantic similarity floor; 0 means DefaultThreshold
	ForceReindex bool    // recompute cached embeddings
}

// Engine runs queries against transcript files. It holds no per-call state;
// the embedder handle is the one long-lived collaborator and stays read-only
// after construction.
type Engine struct {
	log      zerolog.Logger
	embedder ports.Embedder
	rand     *rand.Rand
}

// New builds an engine. embedder may be nil when semantic search is never
// used; rnd may be nil to use the global source.
func New(log zerolog.Logger, embedder ports.Embedder, rnd *rand.Rand) *Engine {
	return &Engine{log: log, embedder: embedder, rand: rnd}
}

// Search runs one strategy over the given media files and queries. Files with
// missing or unparseable transcripts are logged and skipped; the call only
// fails for caller errors (unknown strategy, bad query regex) or a missing
// embedder in semantic mode. Results in sentence, fragment and mash modes are
// sorted by start within each file and concatenated in input order; semantic
// results are sorted by score descending across everything.
func (e *Engine) Search(ctx context.Context, files, queries []string, strategy string, opts Options) ([]types.Segment, error) {
	switch strategy {
	case Mash:
		return e.searchMash(files, queries, opts)
	case Semantic:
		return e.searchSemantic(ctx, files, queries, opts)
	case Sentence, Fragment:
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidSearchType, strategy)
	}

	patterns, err := compileQueries(queries)
	if err != nil {
		return nil, err
	}

	var all []types.Segment
	for _, file := range files {
		transcript, err := transcripts.Parse(file, opts.Prefer)
		if err != nil {
			e.log.Warn().Str("file", file).Err(err).Msg("skipping file")
			continue
		}

		var segments []types.Segment
		if strategy == Sentence {
			segments = searchSentence(file, transcript, patterns)
		} else {
			if !transcript.HasWords() {
				e.log.Warn().Str("file", file).Msg("no word-level timestamps, skipping for fragment search")
				continue
			}
			segments, err = searchFragment(file, transcript, queries)
			if err != nil {
				return nil, err
			}
		}

		sort.SliceStable(segments, func(i, j int) bool {
			return segments[i].Start < segments[j].Start
		})
		all = append(all, segments...)
	}
	return all, nil
}

func compileQueries(queries []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(queries))
	for _, q := range queries {
		re, err := regexp.Compile("(?i)" + q)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", q, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// searchSentence emits one whole-cue segment per query match.
func searchSentence(file string, transcript types.Transcript, patterns []*regexp.Regexp) []types.Segment {
	var out []types.Segment
	for _, cue := range transcript {
		for _, re := range patterns {
			if re.MatchString(cue.Content) {
				out = append(out, types.Segment{
					File:    file,
					Start:   cue.Start,
					End:     cue.End,
					Content: cue.Content,
				})
			}
		}
	}
	return out
}

// searchFragment slides a window the width of each query's token count over
// the transcript's word sequence. Every window word must match its positional
// sub-pattern; a hit spans first to last matched word.
func searchFragment(file string, transcript types.Transcript, queries []string) ([]types.Segment, error) {
	words := transcript.AllWords()

	var out []types.Segment
	for _, query := range queries {
		var subs []*regexp.Regexp
		for _, part := range strings.Fields(query) {
			re, err := regexp.Compile("(?i)" + part)
			if err != nil {
				return nil, fmt.Errorf("query %q: %w", query, err)
			}
			subs = append(subs, re)
		}
		k := len(subs)
		if k == 0 {
			continue
		}

		for i := 0; i+k <= len(words); i++ {
			window := words[i : i+k]
			matched := true
			for j, re := range subs {
				if !re.MatchString(window[j].Word) {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}
			tokens := make([]string, k)
			for j, w := range window {
				tokens[j] = w.Word
			}
			out = append(out, types.Segment{
				File:    file,
				Start:   window[0].Start,
				End:     window[k-1].End,
				Content: strings.Join(tokens, " "),
			})
		}
	}
	return out, nil
}
