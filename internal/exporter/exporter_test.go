package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/virtuadex/videogrep/internal/types"
)

// fakeEncoder records every cut and join, and materializes output files so
// the single-clip rename path works.
type fakeEncoder struct {
	extracts []string // "file start-end -> out"
	concats  [][]string
	failCut  func(start float64) bool
	duration float64 // 0 means probing fails
}

func (f *fakeEncoder) ExtractClip(_ context.Context, file string, start, end float64, out string) error {
	if f.failCut != nil && f.failCut(start) {
		return fmt.Errorf("simulated cut failure at %g", start)
	}
	f.extracts = append(f.extracts, fmt.Sprintf("%s %g-%g -> %s", file, start, end, filepath.Base(out)))
	return os.WriteFile(out, []byte("clip"), 0o644)
}

func (f *fakeEncoder) Concat(_ context.Context, parts []string, out string) error {
	f.concats = append(f.concats, append([]string(nil), parts...))
	return os.WriteFile(out, []byte("joined"), 0o644)
}

func (f *fakeEncoder) ProbeDuration(_ context.Context, _ string) (float64, error) {
	if f.duration > 0 {
		return f.duration, nil
	}
	return 0, fmt.Errorf("no duration")
}

func TestMediaKind(t *testing.T) {
	cases := []struct{ file, want string }{
		{"a.mp4", "video"},
		{"a.MOV", "video"},
		{"a.mp3", "audio"},
		{"a.wav", "audio"},
		{"a", "unknown"},
	}
	for _, tc := range cases {
		if got := MediaKind(tc.file); got != tc.want {
			t.Errorf("MediaKind(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func TestExport_Playlist(t *testing.T) {
	dir := t.TempDir()
	segments := []types.Segment{
		{File: "a.mp4", Start: 1, End: 2.5},
		{File: "b.mp4", Start: 0, End: 1},
	}
	e := New(zerolog.Nop(), &fakeEncoder{})

	out := filepath.Join(dir, "cut.m3u")
	if err := e.Export(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "#EXTM3U\n") {
		t.Fatalf("missing header:\n%s", text)
	}
	for _, want := range []string{"start-time=1", "stop-time=2.5", "a.mp4", "b.mp4"} {
		if !strings.Contains(text, want) {
			t.Fatalf("playlist missing %q:\n%s", want, text)
		}
	}
}

func TestExport_MPVEDL(t *testing.T) {
	dir := t.TempDir()
	segments := []types.Segment{{File: "a.mp4", Start: 1, End: 3}}
	e := New(zerolog.Nop(), &fakeEncoder{})

	out := filepath.Join(dir, "cut.mpv.edl")
	if err := e.Export(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "# mpv EDL v0" {
		t.Fatalf("bad header %q", lines[0])
	}
	// path, start, duration
	if !strings.HasSuffix(lines[1], "a.mp4,1,2") {
		t.Fatalf("bad entry %q", lines[1])
	}
}

func TestEDLURI(t *testing.T) {
	got := EDLURI([]types.Segment{
		{File: "/v/a.mp4", Start: 1, End: 3},
		{File: "/v/b.mp4", Start: 0, End: 0.5},
	})
	want := "edl:///v/a.mp4,1,2;/v/b.mp4,0,0.5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExport_FCPXML(t *testing.T) {
	dir := t.TempDir()
	segments := []types.Segment{{File: "/v/a.mp4", Start: 1.5, End: 3}}
	e := New(zerolog.Nop(), &fakeEncoder{})

	out := filepath.Join(dir, "cut.xml")
	if err := e.Export(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"<fcpxml", "asset-clip", "1500/1000s", "a.mp4"} {
		if !strings.Contains(text, want) {
			t.Fatalf("timeline missing %q:\n%s", want, text)
		}
	}
}

func TestExport_Empty(t *testing.T) {
	enc := &fakeEncoder{}
	e := New(zerolog.Nop(), enc)
	out := filepath.Join(t.TempDir(), "cut.mp4")
	if err := e.Export(context.Background(), nil, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("empty composition should produce no file")
	}
	if len(enc.extracts) != 0 {
		t.Fatalf("encoder was called: %v", enc.extracts)
	}
}

func TestSupercut_SingleClipRename(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{}
	e := New(zerolog.Nop(), enc)

	out := filepath.Join(dir, "cut.mp4")
	segments := []types.Segment{{File: "a.mp4", Start: 0, End: 1}}
	if err := e.Supercut(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
	if len(enc.extracts) != 1 || len(enc.concats) != 0 {
		t.Fatalf("extracts=%d concats=%d, want 1/0", len(enc.extracts), len(enc.concats))
	}
}

func TestSupercut_MultiClipConcat(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{}
	e := New(zerolog.Nop(), enc)

	out := filepath.Join(dir, "cut.mp4")
	segments := []types.Segment{
		{File: "a.mp4", Start: 0, End: 1},
		{File: "a.mp4", Start: 2, End: 3},
		{File: "b.mp4", Start: 0, End: 0.5},
	}
	if err := e.Supercut(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	if len(enc.extracts) != 3 || len(enc.concats) != 1 {
		t.Fatalf("extracts=%d concats=%d, want 3/1", len(enc.extracts), len(enc.concats))
	}
	if len(enc.concats[0]) != 3 {
		t.Fatalf("concat joined %d parts, want 3", len(enc.concats[0]))
	}
}

func TestSupercut_BatchedWithFailure(t *testing.T) {
	dir := t.TempDir()
	// Segment starting at 30 fails; its whole batch is skipped, the rest
	// still assemble.
	enc := &fakeEncoder{failCut: func(start float64) bool { return start == 30 }}
	e := New(zerolog.Nop(), enc)

	var segments []types.Segment
	for i := 0; i < 45; i++ {
		segments = append(segments, types.Segment{File: "a.mp4", Start: float64(i), End: float64(i) + 0.5})
	}
	out := filepath.Join(dir, "cut.mp4")
	if err := e.Supercut(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
	// final concat joins the two surviving batch parts
	final := enc.concats[len(enc.concats)-1]
	if len(final) != 2 {
		t.Fatalf("final concat joined %d parts, want 2", len(final))
	}
}

func TestSupercut_ClampsToDuration(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{duration: 10}
	e := New(zerolog.Nop(), enc)

	segments := []types.Segment{
		{File: "a.mp4", Start: 8, End: 12}, // padded past the end of the file
		{File: "a.mp4", Start: 0, End: 1},
	}
	if err := e.Supercut(context.Background(), segments, filepath.Join(dir, "cut.mp4")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(enc.extracts[0], "a.mp4 8-10 ") {
		t.Fatalf("overrunning segment not clamped: %q", enc.extracts[0])
	}
	if !strings.HasPrefix(enc.extracts[1], "a.mp4 0-1 ") {
		t.Fatalf("in-bounds segment changed: %q", enc.extracts[1])
	}
}

func TestSupercut_UnprobeableDurationTolerated(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{} // probing fails
	e := New(zerolog.Nop(), enc)

	segments := []types.Segment{{File: "a.mp4", Start: 0, End: 1}}
	if err := e.Supercut(context.Background(), segments, filepath.Join(dir, "cut.mp4")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(enc.extracts[0], "a.mp4 0-1 ") {
		t.Fatalf("segment changed without a probed duration: %q", enc.extracts[0])
	}
}

func TestSupercut_DefaultOutputAudioFallback(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{}
	e := New(zerolog.Nop(), enc)

	segments := []types.Segment{{File: "a.mp3", Start: 0, End: 1}}
	if err := e.Supercut(context.Background(), segments, filepath.Join(dir, "supercut.mp4")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "supercut.mp3")); err != nil {
		t.Fatalf("expected audio supercut: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "supercut.mp4")); !os.IsNotExist(err) {
		t.Fatal("video output should not exist for audio input")
	}
}

func TestSupercut_AudioToVideoRejected(t *testing.T) {
	e := New(zerolog.Nop(), &fakeEncoder{})
	segments := []types.Segment{{File: "a.mp3", Start: 0, End: 1}}
	err := e.Supercut(context.Background(), segments, filepath.Join(t.TempDir(), "cut.mp4"))
	if err == nil {
		t.Fatal("expected audio-to-video rejection")
	}
}

func TestExportClips(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{}
	e := New(zerolog.Nop(), enc)

	segments := []types.Segment{
		{File: "a.mp4", Start: 0, End: 1},
		{File: "a.mp4", Start: 2, End: 3},
	}
	out := filepath.Join(dir, "cut.mp4")
	if err := e.ExportClips(context.Background(), segments, out); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"cut_00000.mp4", "cut_00001.mp4"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestExportClips_AudioFallsBackToMP3(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{}
	e := New(zerolog.Nop(), enc)

	segments := []types.Segment{{File: "a.mp3", Start: 0, End: 1}}
	if err := e.ExportClips(context.Background(), segments, filepath.Join(dir, "cut.mp4")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cut_00000.mp3")); err != nil {
		t.Fatalf("expected mp3 clip: %v", err)
	}
}

func TestExportVTT(t *testing.T) {
	dir := t.TempDir()
	e := New(zerolog.Nop(), &fakeEncoder{})

	segments := []types.Segment{{File: "a.mp4", Start: 1, End: 2, Content: "hello there"}}
	out := filepath.Join(dir, "cut.mp4")
	path, err := e.ExportVTT(segments, out)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "cut.vtt") {
		t.Fatalf("got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello there") {
		t.Fatalf("caption missing content:\n%s", data)
	}
}
