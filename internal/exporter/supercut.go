package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/virtuadex/videogrep/internal/config"
	"github.com/virtuadex/videogrep/internal/domain/compose"
	"github.com/virtuadex/videogrep/internal/types"
)

// Supercut cuts every segment from its source and concatenates the clips into
// outPath. Compositions above the batch threshold are assembled in chunks so
// a single failed cut loses one batch, not the whole run.
func (e *Exporter) Supercut(ctx context.Context, segments []types.Segment, outPath string) error {
	// Audio-only sources keep the default output name but switch container;
	// only an explicitly chosen video output is refused.
	if inputKind(segments) == "audio" && filepath.Base(outPath) == config.DefaultOutput {
		outPath = strings.TrimSuffix(outPath, ".mp4") + ".mp3"
		e.log.Info().Str("output", outPath).Msg("audio input, writing audio supercut")
	}
	if err := validatePlan(segments, outPath); err != nil {
		return err
	}
	segments = e.clampToDuration(ctx, segments)

	if !compose.NeedsBatching(segments) {
		return e.renderBatch(ctx, segments, outPath)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(mustAbs(outPath)), "videogrep-batch-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	ext := filepath.Ext(outPath)
	var parts []string
	for i, batch := range compose.Batches(segments) {
		part := filepath.Join(tmpDir, fmt.Sprintf("batch%04d%s", i, ext))
		if err := e.renderBatch(ctx, batch, part); err != nil {
			e.log.Error().Int("batch", i).Err(err).Msg("batch failed, skipping")
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return fmt.Errorf("all %d batches failed", len(compose.Batches(segments)))
	}
	return e.encoder.Concat(ctx, parts, outPath)
}

// renderBatch extracts each segment's clip and joins them.
func (e *Exporter) renderBatch(ctx context.Context, segments []types.Segment, outPath string) error {
	tmpDir, err := os.MkdirTemp(filepath.Dir(mustAbs(outPath)), "videogrep-clips-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	ext := filepath.Ext(outPath)
	parts := make([]string, 0, len(segments))
	for i, s := range segments {
		clip := filepath.Join(tmpDir, fmt.Sprintf("clip%05d%s", i, ext))
		if err := e.encoder.ExtractClip(ctx, s.File, s.Start, s.End, clip); err != nil {
			return fmt.Errorf("extract clip %d (%s %.2f-%.2f): %w", i, s.File, s.Start, s.End, err)
		}
		parts = append(parts, clip)
	}
	if len(parts) == 1 {
		return os.Rename(parts[0], outPath)
	}
	return e.encoder.Concat(ctx, parts, outPath)
}

// clampToDuration caps each segment's end at its source file's probed
// duration, so a padded segment never asks the encoder to cut past EOF. A
// file whose duration cannot be probed passes through unclamped.
func (e *Exporter) clampToDuration(ctx context.Context, segments []types.Segment) []types.Segment {
	durations := map[string]float64{}
	out := make([]types.Segment, 0, len(segments))
	for _, s := range segments {
		d, ok := durations[s.File]
		if !ok {
			var err error
			d, err = e.encoder.ProbeDuration(ctx, s.File)
			if err != nil {
				e.log.Warn().Str("file", s.File).Err(err).Msg("could not probe duration")
				d = -1
			}
			durations[s.File] = d
		}
		if d >= 0 && s.End > d {
			s.End = d
		}
		out = append(out, s)
	}
	return out
}

// ExportClips writes every segment as its own numbered file next to outPath.
func (e *Exporter) ExportClips(ctx context.Context, segments []types.Segment, outPath string) error {
	if err := validatePlan(segments, outPath); err != nil {
		return err
	}
	segments = e.clampToDuration(ctx, segments)
	out := outPath
	if inputKind(segments) == "audio" && strings.HasSuffix(out, ".mp4") {
		out = strings.TrimSuffix(out, ".mp4") + ".mp3"
	}
	for i, s := range segments {
		if err := e.encoder.ExtractClip(ctx, s.File, s.Start, s.End, clipName(out, i)); err != nil {
			return fmt.Errorf("export clip %d: %w", i, err)
		}
	}
	return nil
}
