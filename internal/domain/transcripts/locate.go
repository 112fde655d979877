package transcripts

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Extensions is the transcript formats the parser understands, in preference
// order. The canonical JSON sidecar wins over caption formats because it
// carries word-level timing.
var Extensions = []string{".json", ".vtt", ".srt", ".transcript"}

// Find locates the companion transcript for a media file. Strategies run in
// order and the first hit wins:
//
//  1. exact stem match (video.mp4 -> video.srt)
//  2. fuzzy prefix match, for language-coded names (video.mp4 -> video.en.srt)
//  3. regex fallback, for compound legacy naming
//
// A preferred extension, when given, is tried before the default order. The
// directory is listed once and shared across strategies. Returns ok=false
// when the parent directory is missing or nothing matches. When several
// siblings satisfy the fuzzy or fallback strategy, the first in name order
// wins.
func Find(mediaPath string, prefer string) (string, bool) {
	exts := Extensions
	if prefer != "" {
		if !strings.HasPrefix(prefer, ".") {
			prefer = "." + prefer
		}
		exts = append([]string{prefer}, Extensions...)
	}

	dir := filepath.Dir(mediaPath)
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	for _, ext := range exts {
		candidate := filepath.Join(dir, stem+ext)
		if isFile(candidate) {
			return candidate, true
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, ext := range exts {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if strings.HasPrefix(name, stem) && filepath.Ext(name) == ext {
				return filepath.Join(dir, name), true
			}
		}
	}

	for _, ext := range exts {
		pattern, err := regexp.Compile(regexp.QuoteMeta(stem) + `.*?\.?` + strings.TrimPrefix(ext, "."))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if pattern.MatchString(e.Name()) {
				return filepath.Join(dir, e.Name()), true
			}
		}
	}

	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
