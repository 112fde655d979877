package exporter

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/virtuadex/videogrep/internal/domain/subtitles"
	"github.com/virtuadex/videogrep/internal/ports"
	"github.com/virtuadex/videogrep/internal/types"
)

// The stdlib table only ships web types; common media containers come from
// the OS mime database, which not every host has. Seed the ones that matter
// so classification is deterministic.
func init() {
	for ext, typ := range map[string]string{
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".mkv":  "video/x-matroska",
		".webm": "video/webm",
		".avi":  "video/x-msvideo",
		".mp3":  "audio/mpeg",
		".wav":  "audio/wav",
		".m4a":  "audio/mp4",
		".flac": "audio/flac",
		".ogg":  "audio/ogg",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// MediaKind classifies a filename as "audio", "video", "text" or "unknown"
// from its extension's registered MIME type. Pure function, no filesystem
// access.
func MediaKind(filename string) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mt == "" {
		return "unknown"
	}
	return strings.SplitN(mt, "/", 2)[0]
}

// inputKind is "audio" as soon as any source file is audio: mixing audio-only
// sources into a video container cannot work, so one audio input makes the
// whole composition audio.
func inputKind(segments []types.Segment) string {
	for _, s := range segments {
		if MediaKind(s.File) == "audio" {
			return "audio"
		}
	}
	return "video"
}

// Exporter turns a finalized composition into an output artifact. The output
// extension picks the format: playlist and timeline formats are plain text,
// anything else is a rendered supercut through the media encoder.
type Exporter struct {
	log     zerolog.Logger
	encoder ports.MediaEncoder
}

func New(log zerolog.Logger, encoder ports.MediaEncoder) *Exporter {
	return &Exporter{log: log, encoder: encoder}
}

// Export dispatches on the output path's extension. An empty composition is a
// no-op, not an error.
func (e *Exporter) Export(ctx context.Context, segments []types.Segment, outPath string) error {
	if len(segments) == 0 {
		e.log.Info().Msg("nothing to export")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(mustAbs(outPath)), 0o755); err != nil {
		return err
	}

	switch {
	case strings.HasSuffix(outPath, ".m3u"):
		return writeM3U(segments, outPath)
	case strings.HasSuffix(outPath, ".mpv.edl"):
		return writeMPVEDL(segments, outPath)
	case strings.HasSuffix(outPath, ".xml"):
		return writeFCPXML(segments, outPath)
	case strings.HasSuffix(outPath, ".vtt"):
		return os.WriteFile(outPath, []byte(subtitles.RenderVTT(segments)), 0o644)
	case strings.HasSuffix(outPath, ".srt"):
		return os.WriteFile(outPath, []byte(subtitles.RenderSRT(segments)), 0o644)
	}
	return e.Supercut(ctx, segments, outPath)
}

// ExportVTT writes the composition's caption sidecar next to the main output.
func (e *Exporter) ExportVTT(segments []types.Segment, outPath string) (string, error) {
	vttPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".vtt"
	if err := os.WriteFile(vttPath, []byte(subtitles.RenderVTT(segments)), 0o644); err != nil {
		return "", err
	}
	return vttPath, nil
}

// validatePlan rejects the one conversion the encoder cannot do: audio-only
// sources into a video container.
func validatePlan(segments []types.Segment, outPath string) error {
	if inputKind(segments) == "audio" && MediaKind(outPath) == "video" {
		return errors.New("cannot convert audio input to video output; use an audio output like supercut.mp3")
	}
	return nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func clipName(outPath string, i int) string {
	ext := filepath.Ext(outPath)
	base := strings.TrimSuffix(outPath, ext)
	return fmt.Sprintf("%s_%05d%s", base, i, ext)
}
