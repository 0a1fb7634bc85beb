// Package storage resolves stored image references to bytes. Upload
// mechanics live elsewhere; complaints only carry opaque storage keys.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore reads uploaded images from a local directory, keyed by filename
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a disk-backed image store rooted at baseDir
func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: baseDir}
}

// Load reads the image bytes for a storage key
func (s *DiskStore) Load(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("empty image key")
	}
	clean := filepath.Clean(key)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid image key %q", key)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", key, err)
	}
	return data, nil
}
