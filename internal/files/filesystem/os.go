package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// resolvedEntry reports the type of a symlink's target instead of the link.
type resolvedEntry struct {
	fs.DirEntry
	info fs.FileInfo
}

func (e *resolvedEntry) IsDir() bool                { return e.info.IsDir() }
func (e *resolvedEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e *resolvedEntry) Info() (fs.FileInfo, error) { return e.info, nil }

// OSFileSystem implements FileSystemProvider for the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to access path: %w", err)
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

func (p *OSFileSystem) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink == 0 {
			result = append(result, entry)
			continue
		}
		// Follow the link so symlinked directories are listed as directories.
		// A dangling link stays a plain entry.
		info, err := os.Stat(filepath.Join(path, entry.Name()))
		if err != nil {
			result = append(result, entry)
			continue
		}
		result = append(result, &resolvedEntry{DirEntry: entry, info: info})
	}

	return result, nil
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (p *OSFileSystem) OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Verify OSFileSystem implements the interface at compile time
var _ FileSystemProvider = (*OSFileSystem)(nil)
