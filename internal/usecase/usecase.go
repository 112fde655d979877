package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/virtuadex/videogrep/internal/config"
	"github.com/virtuadex/videogrep/internal/domain/compose"
	"github.com/virtuadex/videogrep/internal/domain/search"
	"github.com/virtuadex/videogrep/internal/domain/transcripts"
	"github.com/virtuadex/videogrep/internal/exporter"
	"github.com/virtuadex/videogrep/internal/ports"
	"github.com/virtuadex/videogrep/internal/types"
)

type Deps struct {
	Log      zerolog.Logger
	Engine   *search.Engine
	Exporter *exporter.Exporter
	ASR      ports.ASR // optional; nil disables transcription
	Out      io.Writer // demo-mode listing destination
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Files      []string
	Queries    []string
	SearchType string
	Output     string

	// Padding is nil when the caller gave none, which picks the per-strategy
	// default (word-level strategies pad, sentence-level ones do not).
	Padding  *float64
	Resync   float64
	MaxClips int
	Shuffle  bool

	Prefer       string
	Threshold    float64
	ForceReindex bool
	Transcribe   bool

	Demo        bool
	ExportClips bool
	WriteVTT    bool
}

type Result struct {
	Segments []types.Segment
	Output   string
	VTTPath  string
}

// Run is the whole grep: locate/transcribe, search, compose, export. A search
// with zero hits returns an empty Result and no error; callers check
// len(Segments).
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	if err := u.ensureTranscripts(ctx, in); err != nil {
		return Result{}, err
	}

	segments, err := u.d.Engine.Search(ctx, in.Files, in.Queries, in.SearchType, search.Options{
		Prefer:       in.Prefer,
		Threshold:    in.Threshold,
		ForceReindex: in.ForceReindex,
	})
	if err != nil {
		return Result{}, err
	}
	if len(segments) == 0 {
		u.d.Log.Warn().Strs("query", in.Queries).Msg("no results found")
		return Result{}, nil
	}

	padding := config.DefaultPadding(in.SearchType)
	if in.Padding != nil {
		padding = *in.Padding
	}
	segments = compose.Compose(segments, compose.Options{
		Padding:  padding,
		Resync:   in.Resync,
		MaxClips: in.MaxClips,
		Shuffle:  in.Shuffle,
	})

	res := Result{Segments: segments, Output: in.Output}

	if in.Demo {
		for _, s := range segments {
			fmt.Fprintf(u.d.Out, "%s | %.2f - %.2f | %s\n", s.File, s.Start, s.End, s.Content)
		}
		return res, nil
	}

	if in.ExportClips {
		if err := u.d.Exporter.ExportClips(ctx, segments, in.Output); err != nil {
			return Result{}, err
		}
	} else if err := u.d.Exporter.Export(ctx, segments, in.Output); err != nil {
		return Result{}, err
	}

	if in.WriteVTT {
		vttPath, err := u.d.Exporter.ExportVTT(segments, in.Output)
		if err != nil {
			return Result{}, err
		}
		u.d.Log.Info().Str("path", vttPath).Msg("subtitle file written")
		res.VTTPath = vttPath
	}
	return res, nil
}

// ensureTranscripts runs the transcriber over inputs that have no companion
// transcript. Only reached when the caller opted in; the search engine itself
// never transcribes.
func (u Usecase) ensureTranscripts(ctx context.Context, in Input) error {
	if !in.Transcribe {
		return nil
	}
	if u.d.ASR == nil {
		return fmt.Errorf("transcription requested but no transcriber configured")
	}
	for _, file := range in.Files {
		if _, ok := transcripts.Find(file, in.Prefer); ok {
			continue
		}
		u.d.Log.Info().Str("file", file).Msg("transcribing")
		if _, err := u.d.ASR.Transcribe(ctx, file); err != nil {
			return fmt.Errorf("transcribe %s: %w", file, err)
		}
	}
	return nil
}
