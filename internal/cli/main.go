package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "videogrep",
		Short:        "Search media transcripts and assemble supercuts",
		SilenceUsage: true,
		RunE:         runGrep,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	f := root.Flags()
	f.StringSliceP("input", "i", nil, "Media file(s) to search")
	f.StringSliceP("search", "s", nil, "Search query (repeatable)")
	f.StringP("search-type", "t", "", "Strategy: sentence, fragment, mash, semantic")
	f.StringP("output", "o", "", "Output file")
	f.Float64P("padding", "p", 0, "Seconds added to both ends of each clip")
	f.Float64P("resync", "r", 0, "Seconds to shift all timestamps")
	f.IntP("max-clips", "m", 0, "Maximum clips in the supercut (0 = unlimited)")
	f.Bool("randomize", false, "Shuffle clip order")
	f.Bool("demo", false, "List matches without exporting")
	f.Bool("preview", false, "Preview the composition in mpv")
	f.Bool("export-clips", false, "Write each clip as its own file")
	f.Bool("export-vtt", false, "Write a caption sidecar for the supercut")
	f.Bool("transcribe", false, "Transcribe inputs that have no transcript")
	f.String("prefer", "", "Preferred transcript extension, e.g. .srt")
	f.Float64("threshold", 0, "Semantic similarity threshold")
	f.String("model", "", "Embedding model for semantic search")
	f.Bool("reindex", false, "Recompute cached embeddings")
	f.Int("ngrams", 0, "Print most common n-grams of this size instead of searching")
	f.String("config", "", "Config file path")
	_ = root.MarkFlagRequired("input")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
