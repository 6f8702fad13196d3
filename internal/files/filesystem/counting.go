package filesystem

import (
	"io"
	"sync"
)

// Op is one recorded filesystem operation.
type Op struct {
	Name string // "exists", "stat", "readdir", "readfile", "openfile"
	Path string
}

// CountingFileSystem decorates a provider and records every operation.
// It is how tests observe that a cached query performed no I/O.
// Safe for concurrent use.
type CountingFileSystem struct {
	inner FileSystemProvider
	mu    sync.Mutex
	ops   []Op
}

// NewCountingFileSystem wraps inner. Panics if inner is nil.
func NewCountingFileSystem(inner FileSystemProvider) *CountingFileSystem {
	if inner == nil {
		panic("inner filesystem cannot be nil")
	}
	return &CountingFileSystem{inner: inner}
}

func (c *CountingFileSystem) record(name, p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, Op{Name: name, Path: p})
}

// Ops returns a copy of the recorded operations, oldest first.
func (c *CountingFileSystem) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Op, len(c.ops))
	copy(result, c.ops)
	return result
}

// Count returns how many operations named name were recorded.
func (c *CountingFileSystem) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range c.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Total returns the number of recorded operations.
func (c *CountingFileSystem) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

// Reset forgets the recorded operations.
func (c *CountingFileSystem) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
}

func (c *CountingFileSystem) Exists(p string) (bool, error) {
	c.record("exists", p)
	return c.inner.Exists(p)
}

func (c *CountingFileSystem) Stat(p string) (FileInfo, error) {
	c.record("stat", p)
	return c.inner.Stat(p)
}

func (c *CountingFileSystem) ReadDir(p string) ([]DirEntry, error) {
	c.record("readdir", p)
	return c.inner.ReadDir(p)
}

func (c *CountingFileSystem) ReadFile(p string) ([]byte, error) {
	c.record("readfile", p)
	return c.inner.ReadFile(p)
}

func (c *CountingFileSystem) OpenFile(p string) (io.ReadCloser, error) {
	c.record("openfile", p)
	return c.inner.OpenFile(p)
}

var _ FileSystemProvider = (*CountingFileSystem)(nil)
