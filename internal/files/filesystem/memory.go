package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// memoryNode is a file or directory of the in-memory tree
type memoryNode struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths are virtual and always use forward slashes. It is not safe for
// concurrent mutation.
type MemoryFileSystem struct {
	nodes  map[string]*memoryNode // absolute path -> node
	root   string
	faults map[string]error // absolute path -> injected failure
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to use forward slashes for virtual filesystem consistency.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		nodes:  make(map[string]*memoryNode),
		root:   root,
		faults: make(map[string]error),
	}
	mfs.nodes[root] = newDirNode(root)
	mfs.ensureDirectoriesExist(root)
	return mfs
}

func newDirNode(absPath string) *memoryNode {
	return &memoryNode{
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
}

// Root returns the root directory of the filesystem.
func (mfs *MemoryFileSystem) Root() string {
	return mfs.root
}

// resolve turns a root-relative or absolute path into a clean absolute virtual path.
func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// AddFile adds or overwrites a file in the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.AddFileWithTime(filePath, content, time.Now())
}

// AddFileWithTime adds or overwrites a file with a specific modification time
func (mfs *MemoryFileSystem) AddFileWithTime(filePath string, content string, modTime time.Time) {
	absPath := mfs.resolve(filePath)
	contentBytes := []byte(content)

	mfs.nodes[absPath] = &memoryNode{
		content: contentBytes,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(contentBytes)),
			mode:    0644,
			modTime: modTime,
			isDir:   false,
		},
	}

	mfs.ensureDirectoriesExist(absPath)
}

// AddDir adds an empty directory (and its parents).
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	absPath := mfs.resolve(dirPath)
	if _, exists := mfs.nodes[absPath]; !exists {
		mfs.nodes[absPath] = newDirNode(absPath)
	}
	mfs.ensureDirectoriesExist(absPath)
}

// Remove deletes a file, or a directory with everything under it.
func (mfs *MemoryFileSystem) Remove(p string) {
	absPath := mfs.resolve(p)
	for nodePath := range mfs.nodes {
		if nodePath == absPath || strings.HasPrefix(nodePath, absPath+"/") {
			delete(mfs.nodes, nodePath)
		}
	}
}

// Rename moves a single file.
func (mfs *MemoryFileSystem) Rename(src, dst string) error {
	srcPath, dstPath := mfs.resolve(src), mfs.resolve(dst)
	node, exists := mfs.nodes[srcPath]
	if !exists {
		return &fs.PathError{Op: "rename", Path: src, Err: fs.ErrNotExist}
	}
	if node.info.isDir {
		return fmt.Errorf("rename %s: directories are not supported", src)
	}
	delete(mfs.nodes, srcPath)
	info := *node.info
	info.name = path.Base(dstPath)
	mfs.nodes[dstPath] = &memoryNode{content: node.content, info: &info}
	mfs.ensureDirectoriesExist(dstPath)
	return nil
}

// FailOn makes every operation on p return err until cleared with a nil err.
func (mfs *MemoryFileSystem) FailOn(p string, err error) {
	absPath := mfs.resolve(p)
	if err == nil {
		delete(mfs.faults, absPath)
		return
	}
	mfs.faults[absPath] = err
}

// ensureDirectoriesExist creates directory entries for all parent directories
func (mfs *MemoryFileSystem) ensureDirectoriesExist(filePath string) {
	dir := path.Dir(filePath)
	if dir == filePath {
		return
	}

	if _, exists := mfs.nodes[dir]; exists {
		return
	}

	mfs.nodes[dir] = newDirNode(dir)

	// Recursively create parent directories
	mfs.ensureDirectoriesExist(dir)
}

// lookup resolves p and applies injected faults.
func (mfs *MemoryFileSystem) lookup(op, p string) (string, *memoryNode, error) {
	absPath := mfs.resolve(p)
	if err, failing := mfs.faults[absPath]; failing {
		return absPath, nil, &fs.PathError{Op: op, Path: p, Err: err}
	}
	node, exists := mfs.nodes[absPath]
	if !exists {
		return absPath, nil, &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
	}
	return absPath, node, nil
}

// Exists implements FileSystemProvider.Exists
func (mfs *MemoryFileSystem) Exists(p string) (bool, error) {
	_, _, err := mfs.lookup("stat", p)
	if err == nil {
		return true, nil
	}
	if IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	_, node, err := mfs.lookup("stat", p)
	if err != nil {
		return nil, err
	}
	return node.info, nil
}

// ReadDir implements FileSystemProvider.ReadDir
func (mfs *MemoryFileSystem) ReadDir(p string) ([]DirEntry, error) {
	absPath, node, err := mfs.lookup("readdir", p)
	if err != nil {
		return nil, err
	}
	if !node.info.isDir {
		return nil, fmt.Errorf("path is not a directory: %s", p)
	}

	var entries []DirEntry
	for nodePath, child := range mfs.nodes {
		if nodePath != absPath && path.Dir(nodePath) == absPath {
			entries = append(entries, fs.FileInfoToDirEntry(child.info))
		}
	}

	// Sort by name for deterministic order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	_, node, err := mfs.lookup("read", p)
	if err != nil {
		return nil, err
	}
	if node.info.isDir {
		return nil, fmt.Errorf("path is a directory, not a file: %s", p)
	}
	return node.content, nil
}

// OpenFile implements FileSystemProvider.OpenFile
func (mfs *MemoryFileSystem) OpenFile(p string) (io.ReadCloser, error) {
	content, err := mfs.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

var _ FileSystemProvider = (*MemoryFileSystem)(nil)
