package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/virtuadex/videogrep/internal/domain/search"
	"github.com/virtuadex/videogrep/internal/exporter"
	"github.com/virtuadex/videogrep/internal/ports"
	"github.com/virtuadex/videogrep/internal/ports/adapters/ffmpeg"
	"github.com/virtuadex/videogrep/internal/ports/adapters/ollama"
	"github.com/virtuadex/videogrep/internal/ports/adapters/whispercpp"
	"github.com/virtuadex/videogrep/internal/usecase"
)

// Config wires one videogrep run: inputs, search parameters, and the external
// tool paths the adapters need.
type Config struct {
	Files      []string
	Queries    []string
	SearchType string
	Output     string

	Padding  *float64
	Resync   float64
	MaxClips int
	Shuffle  bool

	Prefer       string
	Threshold    float64
	ForceReindex bool

	Demo        bool
	ExportClips bool
	WriteVTT    bool

	Transcribe   bool
	WhisperBin   string
	WhisperModel string

	FFmpegPath  string
	FFprobePath string

	EmbedModel   string
	EmbedBaseURL string

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if len(c.Files) == 0 {
		return errors.New("no input files")
	}
	if len(c.Queries) == 0 {
		return errors.New("no search queries")
	}
	if c.Output == "" {
		return errors.New("output path is empty")
	}
	if c.Transcribe && c.WhisperModel == "" {
		return errors.New("transcription requires a whisper model path")
	}
	return nil
}

// Run builds the adapters and executes the search/compose/export flow. The
// embedding model is only touched when the semantic strategy asks for it,
// lazily, through a handle the engine holds by reference.
func Run(ctx context.Context, cfg Config) (usecase.Result, error) {
	if err := cfg.Validate(); err != nil {
		return usecase.Result{}, fmt.Errorf("config: %w", err)
	}

	var embedder ports.Embedder
	if cfg.SearchType == search.Semantic {
		embedder = ollama.New(cfg.EmbedModel, cfg.EmbedBaseURL)
	}

	var asr ports.ASR
	if cfg.Transcribe {
		asr = whispercpp.New(cfg.WhisperBin, cfg.WhisperModel, cfg.FFmpegPath)
	}

	encoder := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)

	uc := usecase.New(usecase.Deps{
		Log:      cfg.Log,
		Engine:   search.New(cfg.Log, embedder, nil),
		Exporter: exporter.New(cfg.Log, encoder),
		ASR:      asr,
		Out:      os.Stdout,
	})

	return uc.Run(ctx, usecase.Input{
		Files:        cfg.Files,
		Queries:      cfg.Queries,
		SearchType:   cfg.SearchType,
		Output:       cfg.Output,
		Padding:      cfg.Padding,
		Resync:       cfg.Resync,
		MaxClips:     cfg.MaxClips,
		Shuffle:      cfg.Shuffle,
		Prefer:       cfg.Prefer,
		Threshold:    cfg.Threshold,
		ForceReindex: cfg.ForceReindex,
		Transcribe:   cfg.Transcribe,
		Demo:         cfg.Demo,
		ExportClips:  cfg.ExportClips,
		WriteVTT:     cfg.WriteVTT,
	})
}

// ensure adapters implement ports
var _ ports.Embedder = (*ollama.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.MediaEncoder = (*ffmpeg.Adapter)(nil)
