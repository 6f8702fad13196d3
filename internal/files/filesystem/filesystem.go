package filesystem

import (
	"errors"
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// DirEntry is an alias for fs.DirEntry. Entries returned by ReadDir report
// IsDir() for symlinks that resolve to directories.
type DirEntry = fs.DirEntry

// FileSystemProvider is the only way the cache touches a filesystem.
// Every method is one observable I/O operation.
type FileSystemProvider interface {
	// Exists reports whether path exists. A missing path is (false, nil);
	// any other failure (permission denied, I/O error) is returned.
	Exists(path string) (bool, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)

	// ReadDir reads the immediate entries of a directory, excluding "." and "..".
	ReadDir(path string) ([]DirEntry, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// OpenFile opens a file for streaming reads.
	OpenFile(path string) (io.ReadCloser, error)
}

// IsNotExist reports whether err means the path does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
