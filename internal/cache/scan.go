package cache

import (
	"github.com/vvka-141/fscache/pkg/fscache"
)

// Scan pre-warms the cache: it materializes the trees below dirs, then resolves
// existence and every selected attribute for each file found.
func (e *Engine) Scan(dirs []string, filter fscache.AttributeFilter) error {
	names, err := e.registry.resolve(filter)
	if err != nil {
		return err
	}

	seen := make(set)
	var files []string
	for _, dir := range dirs {
		dir = clean(dir)
		if _, err := e.recursiveDirs(dir, 0); err != nil {
			return err
		}
		found, err := e.recursiveFiles(dir, 0)
		if err != nil {
			return err
		}
		for _, f := range found.sorted() {
			if !seen.has(f) {
				seen.add(f)
				files = append(files, f)
			}
		}
	}

	e.logger.Verbose("scanning %d files for attributes %v", len(files), names)
	total := len(files)
	e.report(fscache.ProgressTitleScan, 0, total)
	for i, f := range files {
		if _, err := e.Exists(f); err != nil {
			return err
		}
		for _, name := range names {
			if _, _, err := e.Attribute(f, name); err != nil {
				return err
			}
		}
		e.report(fscache.ProgressTitleScan, i+1, total)
	}
	return nil
}
