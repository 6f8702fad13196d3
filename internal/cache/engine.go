package cache

import (
	"fmt"
	"path/filepath"

	"github.com/vvka-141/fscache/internal/files/filesystem"
	"github.com/vvka-141/fscache/internal/logging"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// Engine is the lazily populated filesystem cache.
//
// Queries fill only what is missing and memoize the result, so repeating a
// query performs no I/O. Engine is not safe for concurrent use.
type Engine struct {
	fs       filesystem.FileSystemProvider
	logger   fscache.Logger
	progress fscache.ProgressFunc
	maxDepth int

	registry *registry
	files    *fileStore
	dirs     *dirStore
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem sets the provider all I/O goes through. Defaults to the OS filesystem.
func WithFileSystem(fsProvider filesystem.FileSystemProvider) Option {
	return func(e *Engine) {
		if fsProvider != nil {
			e.fs = fsProvider
		}
	}
}

// WithLogger sets the logger. Defaults to a NullLogger.
func WithLogger(logger fscache.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress sets the observer notified while Scan and Check run.
func WithProgress(progress fscache.ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = progress
	}
}

// WithMaxDepth bounds recursive directory materialization.
// Non-positive values select fscache.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an empty engine with no registered attributes.
func New(opts ...Option) *Engine {
	e := &Engine{
		fs:       filesystem.NewOSFileSystem(),
		logger:   logging.NewNullLogger(),
		maxDepth: fscache.DefaultMaxDepth,
		registry: newRegistry(),
		files:    newFileStore(),
		dirs:     newDirStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// clean normalizes a path into a record store key.
func clean(path string) string {
	return filepath.Clean(path)
}

// RegisterAttribute makes name queryable through Attribute.
// The plugin's invalidation dependencies are read once, here.
func (e *Engine) RegisterAttribute(name string, plugin fscache.AttributePlugin) error {
	e.logger.Verbose("registering attribute plugin %q (%T)", name, plugin)
	if err := e.registry.register(name, plugin); err != nil {
		return err
	}
	if deps := e.registry.dependsOn[name]; len(deps) > 0 {
		e.logger.Verbose("attribute %q is invalidated by changes to %v", name, deps)
	}
	return nil
}

// Attributes returns the registered attribute names in registration order.
func (e *Engine) Attributes() []string {
	return e.registry.registered()
}

// Exists reports whether path exists.
//
// A cached flag wins. Otherwise existence is inferred from cached attributes,
// then from the parent directory's listing if it was read, and only then
// checked on the filesystem. The answer is memoized.
func (e *Engine) Exists(path string) (bool, error) {
	path = clean(path)
	rec := e.files.getOrCreate(path)
	if exists, ok := rec.known(); ok {
		rec.setExists(exists)
		return exists, nil
	}

	if parent, listed := e.dirs.get(filepath.Dir(path)); listed {
		base := filepath.Base(path)
		exists := parent.files.has(base) || parent.dirs.has(base)
		rec.setExists(exists)
		return exists, nil
	}

	exists, err := e.fs.Exists(path)
	if err != nil {
		return false, fmt.Errorf("failed to check existence of %s: %w", path, err)
	}
	rec.setExists(exists)
	return exists, nil
}

// Attribute returns the named attribute of path. The boolean is false when the
// path does not exist, in which case the plugin is not called. The plugin runs
// at most once per path until the value is invalidated.
func (e *Engine) Attribute(path, name string) (fscache.Value, bool, error) {
	if !e.registry.has(name) {
		return nil, false, fmt.Errorf("%w: %q", fscache.ErrUnknownAttribute, name)
	}

	path = clean(path)
	rec := e.files.getOrCreate(path)
	if value, ok := rec.attrs[name]; ok {
		return value, true, nil
	}

	exists, err := e.Exists(path)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	e.logger.Verbose("computing %s of %s", name, path)
	value, err := e.registry.compute(name, path)
	if err != nil {
		return nil, false, err
	}
	rec.attrs[name] = value
	return value, true, nil
}

// Forget drops the file records of paths entirely. Directory records are untouched.
func (e *Engine) Forget(paths []string) {
	for _, p := range paths {
		e.files.delete(clean(p))
	}
}

// Stats summarizes the cache content.
func (e *Engine) Stats() fscache.Stats {
	stats := fscache.Stats{
		Files:      e.files.len(),
		Dirs:       e.dirs.len(),
		Attributes: make(map[string]int),
	}
	for _, rec := range e.files.records {
		if exists, ok := rec.known(); ok {
			if exists {
				stats.Existing++
			} else {
				stats.Missing++
			}
		}
		for name := range rec.attrs {
			stats.Attributes[name]++
		}
	}
	for _, rec := range e.dirs.records {
		if rec.memoized() {
			stats.Memoized++
		}
	}
	return stats
}

func (e *Engine) report(title string, done, total int) {
	if e.progress != nil {
		e.progress(title, done, total)
	}
}

var _ fscache.Cache = (*Engine)(nil)
