package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/virtuadex/videogrep/internal/domain/semantic"
	"github.com/virtuadex/videogrep/internal/domain/transcripts"
	"github.com/virtuadex/videogrep/internal/types"
)

// searchSemantic scores every cue of every transcript against every query by
// cosine similarity of their sentence embeddings. Cue embeddings are cached
// in a sidecar file per media path; a missing or stale cache triggers
// recomputation, never an error.
func (e *Engine) searchSemantic(ctx context.Context, files, queries []string, opts Options) ([]types.Segment, error) {
	if e.embedder == nil {
		return nil, types.ErrSemanticUnavailable
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	queryVecs, err := e.embedder.EmbedMany(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("embed queries: %w", err)
	}

	var all []types.Segment
	for _, file := range files {
		transcript, err := transcripts.Parse(file, opts.Prefer)
		if err != nil {
			e.log.Warn().Str("file", file).Err(err).Msg("skipping file")
			continue
		}
		if len(transcript) == 0 {
			continue
		}

		cueVecs, err := e.cueEmbeddings(ctx, file, transcript, opts.ForceReindex)
		if err != nil {
			e.log.Warn().Str("file", file).Err(err).Msg("skipping file: embeddings failed")
			continue
		}

		scores := semantic.SimilarityMatrix(queryVecs, cueVecs)
		for _, row := range scores {
			for j, score := range row {
				if score < threshold || j >= len(transcript) {
					continue
				}
				all = append(all, types.Segment{
					File:    file,
					Start:   transcript[j].Start,
					End:     transcript[j].End,
					Content: transcript[j].Content,
					Score:   score,
				})
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})
	return all, nil
}

// cueEmbeddings loads the sidecar cache for a file, recomputing and rewriting
// it when missing, corrupt, stale, or force-invalidated.
func (e *Engine) cueEmbeddings(ctx context.Context, file string, transcript types.Transcript, force bool) ([][]float64, error) {
	if !force {
		cached, ok, err := semantic.LoadCache(file)
		if err != nil {
			e.log.Warn().Str("file", file).Err(err).Msg("embedding cache unreadable, recomputing")
		} else if ok && len(cached) == len(transcript) {
			return cached, nil
		}
	}

	contents := make([]string, len(transcript))
	for i, cue := range transcript {
		contents[i] = cue.Content
	}
	e.log.Info().Str("file", file).Int("cues", len(contents)).Msg("generating embeddings")
	vecs, err := e.embedder.EmbedMany(ctx, contents)
	if err != nil {
		return nil, err
	}
	if err := semantic.SaveCache(file, vecs); err != nil {
		e.log.Warn().Str("file", file).Err(err).Msg("could not write embedding cache")
	}
	return vecs, nil
}
