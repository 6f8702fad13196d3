package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// SaveFile writes snap to path atomically, in the format the extension selects.
// Missing parent directories are created.
func SaveFile(path string, snap *fscache.Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dirs for %s: %w", path, err)
	}

	// Write to temp file then rename for atomicity
	tmp, err := os.CreateTemp(dir, ".fscache-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, snap, FormatForPath(path)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}

// LoadFile reads the snapshot at path. A missing file yields fscache.ErrSnapshotNotFound.
func LoadFile(path string) (*fscache.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", fscache.ErrSnapshotNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := Decode(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return snap, nil
}
