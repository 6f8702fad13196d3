package fscache

import (
	"slices"
)

// Value is a plugin-computed attribute value. Values must be comparable with
// reflect.DeepEqual and representable by the snapshot codecs (JSON, YAML).
type Value = any

// AttributePlugin computes one named attribute for files.
//
// Compute is only called for paths known or assumed to exist and may perform
// arbitrary I/O. InvalidationDependencies is read once, at registration: when any
// attribute it lists changes on a file, this attribute's cached value for that
// file is dropped (not recomputed).
type AttributePlugin interface {
	Compute(path string) (Value, error)
	InvalidationDependencies() []string
}

// AttributeFilter selects attributes for bulk operations.
// A nil Include selects every registered attribute; Exclude is subtracted afterwards.
type AttributeFilter struct {
	Include []string
	Exclude []string
}

// AllAttributes selects every registered attribute.
var AllAttributes = AttributeFilter{}

// Only selects the named attributes.
func Only(names ...string) AttributeFilter {
	return AttributeFilter{Include: names}
}

// Except selects every registered attribute but the named ones.
func Except(names ...string) AttributeFilter {
	return AttributeFilter{Exclude: names}
}

// Resolve applies the filter to the registered attribute names, preserving their order.
func (f AttributeFilter) Resolve(registered []string) []string {
	base := registered
	if f.Include != nil {
		base = f.Include
	}
	result := make([]string, 0, len(base))
	for _, name := range base {
		if slices.Contains(f.Exclude, name) || slices.Contains(result, name) {
			continue
		}
		result = append(result, name)
	}
	return result
}

// ProgressFunc observes bulk operations. done counts processed files out of total.
// It is purely informational.
type ProgressFunc func(title string, done, total int)

// Stats summarizes the cache content.
type Stats struct {
	Files      int            `json:"files"`      // file records held
	Existing   int            `json:"existing"`   // file records known to exist
	Missing    int            `json:"missing"`    // file records known not to exist
	Dirs       int            `json:"dirs"`       // directory records held
	Memoized   int            `json:"memoized"`   // directory records with both recursive sets computed
	Attributes map[string]int `json:"attributes"` // cached values per attribute name
}

// Querier is the read side of the cache. Plugin helpers depend on it only.
type Querier interface {
	Exists(path string) (bool, error)
	Attribute(path, name string) (Value, bool, error)
	FilesIn(dir string) ([]string, error)
	DirsIn(dir string) ([]string, error)
	RecursiveDirsFrom(dir string) ([]string, error)
	RecursiveFilesFrom(dir string) ([]string, error)
}

// Cache is the complete query and mutation surface of the filesystem cache.
// Implementations are not safe for concurrent use; callers serialize access.
type Cache interface {
	Querier

	RegisterAttribute(name string, plugin AttributePlugin) error
	Attributes() []string

	Scan(dirs []string, filter AttributeFilter) error
	Check(filter AttributeFilter) error
	Invalidate(paths []string, filter AttributeFilter) error
	Forget(paths []string)

	NotifyRemoved(path string)
	NotifyCopied(src, dst string)
	NotifyMoved(src, dst string)

	Export() *Snapshot
	Import(snapshot *Snapshot) error
	Stats() Stats
}
