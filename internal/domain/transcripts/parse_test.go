package transcripts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/virtuadex/videogrep/internal/types"
)

func TestParse_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	srt := "1\n00:00:00,000 --> 00:00:01,500\nhello from srt\n"
	if err := os.WriteFile(filepath.Join(dir, "talk.srt"), []byte(srt), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "talk.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Parse(filepath.Join(dir, "talk.mp4"), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Content != "hello from srt" {
		t.Fatalf("got %+v", got)
	}
}

func TestParse_NotFound(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "talk.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Parse(filepath.Join(dir, "talk.mp4"), "")
	if !errors.Is(err, types.ErrTranscriptNotFound) {
		t.Fatalf("expected ErrTranscriptNotFound, got %v", err)
	}
}
