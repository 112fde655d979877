package ports

import (
	"context"

	"github.com/virtuadex/videogrep/internal/types"
)

// Embedder is the sentence-embedding model collaborator for semantic search.
// Model identity and loading are the adapter's concern.
type Embedder interface {
	EmbedMany(ctx context.Context, inputs []string) ([][]float64, error)
}

// ASR produces a transcript for a media file and writes the canonical JSON
// sidecar next to it. Invoked by callers when no transcript can be located,
// never by the search engine itself.
type ASR interface {
	Transcribe(ctx context.Context, mediaPath string) (types.Transcript, error)
}

// MediaEncoder cuts and joins media files. All actual decoding and muxing
// lives behind this port.
type MediaEncoder interface {
	ExtractClip(ctx context.Context, file string, start, end float64, outPath string) error
	Concat(ctx context.Context, parts []string, outPath string) error
	ProbeDuration(ctx context.Context, file string) (float64, error)
}
