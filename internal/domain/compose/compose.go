package compose

import (
	"math/rand"
	"sort"

	"github.com/virtuadex/videogrep/internal/types"
)

// BatchSize is the composition length above which the export collaborator
// should assemble the supercut in chunks instead of one pass.
const BatchSize = 20

// RemoveOverlaps merges segments from the same file whose spans touch or
// overlap. One left-to-right sweep after sorting by start time: a segment
// folds into the previous output segment when it starts at or before that
// segment's end, extending the end as needed.
func RemoveOverlaps(segments []types.Segment) []types.Segment {
	if len(segments) == 0 {
		return nil
	}

	sorted := make([]types.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := []types.Segment{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s.File == last.File && last.End >= s.Start {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// PadAndSync widens every segment by padding on both sides, shifts both
// bounds by resync, clamps at zero, and re-merges the overlaps the widening
// may have introduced. Zero padding and resync make this a plain overlap
// merge, so the operation is idempotent.
func PadAndSync(segments []types.Segment, padding, resync float64) []types.Segment {
	if len(segments) == 0 {
		return nil
	}

	processed := make([]types.Segment, 0, len(segments))
	for _, s := range segments {
		s.Start = max(0, s.Start-padding+resync)
		s.End = max(0, s.End+padding+resync)
		processed = append(processed, s)
	}
	return RemoveOverlaps(processed)
}

// Options control the final ordering and size of a composition.
type Options struct {
	Padding  float64
	Resync   float64
	MaxClips int // 0 means unlimited
	Shuffle  bool
	Rand     *rand.Rand // nil uses the global source
}

// Compose runs the full post-processing pipeline: overlap removal, padding
// and resync, optional shuffle, optional clip limit. Empty input yields empty
// output at every stage.
func Compose(segments []types.Segment, opts Options) []types.Segment {
	out := RemoveOverlaps(segments)
	out = PadAndSync(out, opts.Padding, opts.Resync)

	if opts.Shuffle {
		shuffle := rand.Shuffle
		if opts.Rand != nil {
			shuffle = opts.Rand.Shuffle
		}
		shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}

	if opts.MaxClips > 0 && len(out) > opts.MaxClips {
		out = out[:opts.MaxClips]
	}
	return out
}

// NeedsBatching reports whether the composition is large enough that the
// exporter should assemble it in chunks.
func NeedsBatching(segments []types.Segment) bool {
	return len(segments) > BatchSize
}

// Batches splits a composition into BatchSize-long chunks, preserving order.
func Batches(segments []types.Segment) [][]types.Segment {
	var out [][]types.Segment
	for start := 0; start < len(segments); start += BatchSize {
		end := min(start+BatchSize, len(segments))
		out = append(out, segments[start:end])
	}
	return out
}
