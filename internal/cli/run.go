package cli

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/virtuadex/videogrep/internal/config"
	"github.com/virtuadex/videogrep/internal/domain/transcripts"
	"github.com/virtuadex/videogrep/internal/exporter"
	"github.com/virtuadex/videogrep/internal/pipeline"
)

func runGrep(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	cfgFile, _ := flags.GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	files, _ := flags.GetStringSlice("input")

	if n, _ := flags.GetInt("ngrams"); n > 0 {
		for _, nc := range transcripts.CountNgrams(transcripts.Ngrams(files, n, log)) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", nc.Count, nc.Gram)
		}
		return nil
	}

	queries, _ := flags.GetStringSlice("search")
	if len(queries) == 0 {
		return fmt.Errorf("at least one --search query is required")
	}

	run := pipeline.Config{
		Files:   files,
		Queries: queries,
		Output:  cfg.Output,
		Log:     log,

		FFmpegPath:   cfg.FFmpegPath,
		FFprobePath:  cfg.FFprobePath,
		WhisperBin:   cfg.WhisperBin,
		WhisperModel: cfg.WhisperModel,
		EmbedModel:   cfg.EmbedModel,
		EmbedBaseURL: cfg.EmbedBaseURL,

		Prefer:    cfg.PreferExtension,
		Threshold: cfg.SemanticThreshold,
	}

	run.SearchType = cfg.SearchType
	if v, _ := flags.GetString("search-type"); v != "" {
		run.SearchType = v
	}
	if v, _ := flags.GetString("output"); v != "" {
		run.Output = v
	}
	if flags.Changed("padding") {
		v, _ := flags.GetFloat64("padding")
		run.Padding = &v
	} else if cfg.Padding != 0 {
		run.Padding = &cfg.Padding
	}
	run.Resync = cfg.Resync
	if flags.Changed("resync") {
		run.Resync, _ = flags.GetFloat64("resync")
	}
	run.MaxClips, _ = flags.GetInt("max-clips")
	run.Shuffle, _ = flags.GetBool("randomize")
	run.Demo, _ = flags.GetBool("demo")
	run.ExportClips, _ = flags.GetBool("export-clips")
	run.WriteVTT, _ = flags.GetBool("export-vtt")
	run.Transcribe, _ = flags.GetBool("transcribe")
	run.ForceReindex, _ = flags.GetBool("reindex")
	if v, _ := flags.GetString("prefer"); v != "" {
		run.Prefer = v
	}
	if v, _ := flags.GetFloat64("threshold"); v != 0 {
		run.Threshold = v
	}
	if v, _ := flags.GetString("model"); v != "" {
		run.EmbedModel = v
	}

	preview, _ := flags.GetBool("preview")
	if preview {
		// Preview needs the composed segments but no export.
		run.Demo = true
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, run)
	if err != nil {
		return err
	}

	if preview && len(res.Segments) > 0 {
		mpv := exec.CommandContext(ctx, "mpv", exporter.EDLURI(res.Segments))
		if err := mpv.Run(); err != nil {
			return fmt.Errorf("could not launch mpv for preview: %w", err)
		}
	}
	return nil
}
