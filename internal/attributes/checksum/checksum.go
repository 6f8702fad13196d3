// Package checksum provides the "checksum" attribute and the DiffDirs helper.
//
// The checksum of a file is its block-wise content hash. It is dropped whenever
// the file's size changes, since a size change always means new content.
package checksum

import (
	"fmt"

	"github.com/vvka-141/fscache/internal/attributes/size"
	calc "github.com/vvka-141/fscache/internal/checksum"
	"github.com/vvka-141/fscache/internal/files/filesystem"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// Name is the attribute name the plugin is registered under.
const Name = "checksum"

// Plugin hashes file content with a Calculator.
type Plugin struct {
	fs         filesystem.FileSystemProvider
	calculator calc.Calculator
}

// New creates a checksum plugin reading through fsProvider.
func New(fsProvider filesystem.FileSystemProvider, calculator calc.Calculator) *Plugin {
	return &Plugin{fs: fsProvider, calculator: calculator}
}

// Compute streams the content of path through the calculator.
func (p *Plugin) Compute(path string) (fscache.Value, error) {
	f, err := p.fs.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sum, err := p.calculator.Sum(f)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return sum, nil
}

// InvalidationDependencies implements fscache.AttributePlugin.
func (p *Plugin) InvalidationDependencies() []string {
	return []string{size.Name}
}

// Of returns the cached checksum of path; ok is false when path does not exist.
func Of(q fscache.Querier, path string) (sum string, ok bool, err error) {
	value, ok, err := q.Attribute(path, Name)
	if err != nil || !ok {
		return "", false, err
	}
	sum, ok = fscache.String(value)
	if !ok {
		return "", false, fmt.Errorf("%s of %s is not a string: %v", Name, path, value)
	}
	return sum, true, nil
}

var _ fscache.AttributePlugin = (*Plugin)(nil)
