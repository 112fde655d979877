package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/virtuadex/videogrep/internal/domain/search"
	"github.com/virtuadex/videogrep/internal/exporter"
	"github.com/virtuadex/videogrep/internal/types"
)

type nopEncoder struct{}

func (nopEncoder) ExtractClip(_ context.Context, _ string, _, _ float64, out string) error {
	return os.WriteFile(out, []byte("clip"), 0o644)
}

func (nopEncoder) Concat(_ context.Context, _ []string, out string) error {
	return os.WriteFile(out, []byte("joined"), 0o644)
}

func (nopEncoder) ProbeDuration(context.Context, string) (float64, error) {
	return 3600, nil
}

// fakeASR plays the transcriber's contract: produce the JSON sidecar next to
// the media file.
type fakeASR struct {
	calls      []string
	transcript types.Transcript
}

func (f *fakeASR) Transcribe(_ context.Context, mediaPath string) (types.Transcript, error) {
	f.calls = append(f.calls, mediaPath)
	data, err := json.Marshal(f.transcript)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	if err := os.WriteFile(stem+".json", data, 0o644); err != nil {
		return nil, err
	}
	return f.transcript, nil
}

func sampleTranscript() types.Transcript {
	return types.Transcript{
		{Start: 0, End: 2, Content: "hello out there"},
		{Start: 3, End: 5, Content: "nothing to see"},
		{Start: 6, End: 8, Content: "hello again"},
	}
}

func writeFixture(t *testing.T, dir, stem string, transcript types.Transcript) string {
	t.Helper()
	media := filepath.Join(dir, stem+".mp4")
	if err := os.WriteFile(media, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	if transcript != nil {
		data, err := json.Marshal(transcript)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, stem+".json"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return media
}

func newUsecase(out *bytes.Buffer, asr *fakeASR) Usecase {
	log := zerolog.Nop()
	d := Deps{
		Log:      log,
		Engine:   search.New(log, nil, nil),
		Exporter: exporter.New(log, nopEncoder{}),
		Out:      out,
	}
	if asr != nil {
		d.ASR = asr
	}
	return New(d)
}

func TestRun_Demo(t *testing.T) {
	dir := t.TempDir()
	media := writeFixture(t, dir, "video", sampleTranscript())

	var out bytes.Buffer
	u := newUsecase(&out, nil)
	res, err := u.Run(context.Background(), Input{
		Files:      []string{media},
		Queries:    []string{"hello"},
		SearchType: search.Sentence,
		Output:     filepath.Join(dir, "cut.mp4"),
		Demo:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d demo lines:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "hello out there") || !strings.Contains(lines[0], "0.00 - 2.00") {
		t.Fatalf("bad demo line %q", lines[0])
	}
	// demo never renders
	if _, err := os.Stat(filepath.Join(dir, "cut.mp4")); !os.IsNotExist(err) {
		t.Fatal("demo mode must not write the output file")
	}
}

func TestRun_NoResults(t *testing.T) {
	dir := t.TempDir()
	media := writeFixture(t, dir, "video", sampleTranscript())

	var out bytes.Buffer
	u := newUsecase(&out, nil)
	res, err := u.Run(context.Background(), Input{
		Files:      []string{media},
		Queries:    []string{"xylophone"},
		SearchType: search.Sentence,
		Output:     filepath.Join(dir, "cut.mp4"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Segments) != 0 || res.Output != "" {
		t.Fatalf("got %+v, want empty result", res)
	}
}

func TestRun_ExportAndVTT(t *testing.T) {
	dir := t.TempDir()
	media := writeFixture(t, dir, "video", sampleTranscript())

	var out bytes.Buffer
	u := newUsecase(&out, nil)
	outPath := filepath.Join(dir, "cut.m3u")
	res, err := u.Run(context.Background(), Input{
		Files:      []string{media},
		Queries:    []string{"hello"},
		SearchType: search.Sentence,
		Output:     outPath,
		WriteVTT:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatal(err)
	}
	if res.VTTPath != filepath.Join(dir, "cut.vtt") {
		t.Fatalf("VTTPath = %q", res.VTTPath)
	}
	if _, err := os.Stat(res.VTTPath); err != nil {
		t.Fatal(err)
	}
}

func TestRun_Transcribe(t *testing.T) {
	dir := t.TempDir()
	media := writeFixture(t, dir, "video", nil) // no sidecar yet

	asr := &fakeASR{transcript: sampleTranscript()}
	var out bytes.Buffer
	u := newUsecase(&out, asr)
	res, err := u.Run(context.Background(), Input{
		Files:      []string{media},
		Queries:    []string{"hello"},
		SearchType: search.Sentence,
		Output:     filepath.Join(dir, "cut.mp4"),
		Transcribe: true,
		Demo:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(asr.calls) != 1 || asr.calls[0] != media {
		t.Fatalf("transcriber calls %v", asr.calls)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}
}

func TestRun_TranscribeSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	media := writeFixture(t, dir, "video", sampleTranscript())

	asr := &fakeASR{transcript: sampleTranscript()}
	var out bytes.Buffer
	u := newUsecase(&out, asr)
	if _, err := u.Run(context.Background(), Input{
		Files:      []string{media},
		Queries:    []string{"hello"},
		SearchType: search.Sentence,
		Output:     filepath.Join(dir, "cut.mp4"),
		Transcribe: true,
		Demo:       true,
	}); err != nil {
		t.Fatal(err)
	}
	if len(asr.calls) != 0 {
		t.Fatalf("transcriber should not run with a transcript present, calls %v", asr.calls)
	}
}

func TestRun_TranscribeWithoutASR(t *testing.T) {
	dir := t.TempDir()
	media := writeFixture(t, dir, "video", nil)

	var out bytes.Buffer
	u := newUsecase(&out, nil)
	_, err := u.Run(context.Background(), Input{
		Files:      []string{media},
		Queries:    []string{"hello"},
		SearchType: search.Sentence,
		Output:     filepath.Join(dir, "cut.mp4"),
		Transcribe: true,
	})
	if err == nil {
		t.Fatal("expected error when transcription is requested with no transcriber")
	}
}
