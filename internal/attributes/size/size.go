// Package size provides the "size" attribute: the byte size of a file.
package size

import (
	"fmt"

	"github.com/vvka-141/fscache/internal/files/filesystem"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// Name is the attribute name the plugin is registered under.
const Name = "size"

// Plugin computes file sizes with a single stat.
type Plugin struct {
	fs filesystem.FileSystemProvider
}

// New creates a size plugin reading through fsProvider.
func New(fsProvider filesystem.FileSystemProvider) *Plugin {
	return &Plugin{fs: fsProvider}
}

// Compute returns the size of path in bytes as an int64.
func (p *Plugin) Compute(path string) (fscache.Value, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// InvalidationDependencies implements fscache.AttributePlugin. Size depends on nothing.
func (p *Plugin) InvalidationDependencies() []string {
	return nil
}

// Of returns the cached size of path; ok is false when path does not exist.
func Of(q fscache.Querier, path string) (size int64, ok bool, err error) {
	value, ok, err := q.Attribute(path, Name)
	if err != nil || !ok {
		return 0, false, err
	}
	size, ok = fscache.Int64(value)
	if !ok {
		return 0, false, fmt.Errorf("%s of %s is not a number: %v", Name, path, value)
	}
	return size, true, nil
}

// IsEmpty reports whether path is an existing zero-byte file.
func IsEmpty(q fscache.Querier, path string) (bool, error) {
	size, ok, err := Of(q, path)
	if err != nil || !ok {
		return false, err
	}
	return size == 0, nil
}

var _ fscache.AttributePlugin = (*Plugin)(nil)
