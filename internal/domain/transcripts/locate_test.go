package transcripts

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFind_ExactMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "video.srt"))
	touch(t, filepath.Join(dir, "video.json"))

	got, ok := Find(filepath.Join(dir, "video.mp4"), "")
	if !ok {
		t.Fatal("expected a match")
	}
	// .json wins: it is first in the preference order.
	if got != filepath.Join(dir, "video.json") {
		t.Fatalf("got %s", got)
	}
}

func TestFind_PreferredExtensionWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "video.srt"))
	touch(t, filepath.Join(dir, "video.json"))

	got, ok := Find(filepath.Join(dir, "video.mp4"), ".srt")
	if !ok || got != filepath.Join(dir, "video.srt") {
		t.Fatalf("got %s ok=%v", got, ok)
	}

	// Bare extension text is normalized.
	got, ok = Find(filepath.Join(dir, "video.mp4"), "srt")
	if !ok || got != filepath.Join(dir, "video.srt") {
		t.Fatalf("got %s ok=%v", got, ok)
	}
}

func TestFind_FuzzyPrefixMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "video.en.srt"))

	got, ok := Find(filepath.Join(dir, "video.mp4"), "")
	if !ok || got != filepath.Join(dir, "video.en.srt") {
		t.Fatalf("got %s ok=%v", got, ok)
	}
}

func TestFind_PatternFallback(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "video part1.asrt"))

	got, ok := Find(filepath.Join(dir, "video.mp4"), "")
	if !ok || got != filepath.Join(dir, "video part1.asrt") {
		t.Fatalf("got %s ok=%v", got, ok)
	}
}

func TestFind_NoMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "other.srt"))

	if got, ok := Find(filepath.Join(dir, "video.mp4"), ""); ok {
		t.Fatalf("expected no match, got %s", got)
	}
}

func TestFind_MissingDirectory(t *testing.T) {
	if got, ok := Find("/nonexistent-dir-xyz/video.mp4", ""); ok {
		t.Fatalf("expected no match, got %s", got)
	}
}
