package semantic

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sidecar embedding cache, one file per media path. Little-endian layout:
//
//	magic "VGEM" | uint32 version | uint32 count | uint32 dim | count*dim float64
//
// The file is rewritten whole and never locked; concurrent writers to the
// same media path are a documented hazard the caller owns.
const (
	cacheMagic   = "VGEM"
	cacheVersion = 1
	cacheSuffix  = ".embeddings.bin"
)

// CachePath returns the sidecar path for a media file's embedding cache.
func CachePath(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + cacheSuffix
}

// SaveCache writes cue embeddings for a media file.
func SaveCache(mediaPath string, vectors [][]float64) error {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("ragged embedding matrix: row %d has dim %d, want %d", i, len(v), dim)
		}
	}

	f, err := os.Create(CachePath(mediaPath))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(cacheMagic); err != nil {
		return err
	}
	header := []uint32{cacheVersion, uint32(len(vectors)), uint32(dim)}
	for _, v := range header {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, row := range vectors {
		if err := binary.Write(f, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return nil
}

// LoadCache reads cached cue embeddings for a media file. A missing file
// returns ok=false and no error; that just means recompute.
func LoadCache(mediaPath string) ([][]float64, bool, error) {
	f, err := os.Open(CachePath(mediaPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	magic := make([]byte, len(cacheMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, false, fmt.Errorf("embedding cache %s: %w", CachePath(mediaPath), err)
	}
	if string(magic) != cacheMagic {
		return nil, false, fmt.Errorf("embedding cache %s: bad magic", CachePath(mediaPath))
	}

	var version, count, dim uint32
	for _, p := range []*uint32{&version, &count, &dim} {
		if err := binary.Read(f, binary.LittleEndian, p); err != nil {
			return nil, false, fmt.Errorf("embedding cache %s: %w", CachePath(mediaPath), err)
		}
	}
	if version != cacheVersion {
		return nil, false, fmt.Errorf("embedding cache %s: unsupported version %d", CachePath(mediaPath), version)
	}

	vectors := make([][]float64, count)
	for i := range vectors {
		row := make([]float64, dim)
		if err := binary.Read(f, binary.LittleEndian, row); err != nil {
			return nil, false, fmt.Errorf("embedding cache %s: %w", CachePath(mediaPath), err)
		}
		vectors[i] = row
	}
	return vectors, true, nil
}
