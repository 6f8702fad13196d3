package cache

import (
	"fmt"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// Check reconciles every held file record with the live filesystem.
//
// A record known to be missing whose path now exists becomes {exists: true}.
// A record whose path still exists has its selected cached attributes
// recomputed; a changed value replaces the old one and drops the attributes
// depending on it. A record whose path is gone becomes {exists: false}.
//
// The directory store is cleared afterwards, also when Check fails.
func (e *Engine) Check(filter fscache.AttributeFilter) error {
	names, err := e.registry.resolve(filter)
	if err != nil {
		return err
	}
	order := e.registry.ordered(names)

	defer func() {
		e.logger.Verbose("dropping %d directory records", e.dirs.len())
		e.dirs.clear()
	}()

	paths := e.files.paths()
	total := len(paths)
	e.report(fscache.ProgressTitleCheck, 0, total)
	for i, path := range paths {
		if err := e.checkFile(path, order); err != nil {
			return err
		}
		e.report(fscache.ProgressTitleCheck, i+1, total)
	}
	return nil
}

func (e *Engine) checkFile(path string, order []string) error {
	rec, _ := e.files.get(path)
	exists, err := e.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to check existence of %s: %w", path, err)
	}

	if !exists {
		if was, known := rec.known(); !known || was {
			e.logger.Verbose("%s is gone", path)
		}
		e.files.reset(path, false)
		return nil
	}

	if rec.exists != nil && !*rec.exists {
		e.logger.Verbose("%s appeared", path)
		e.files.reset(path, true)
		return nil
	}

	rec.setExists(true)
	for _, name := range order {
		old, cached := rec.attrs[name]
		if !cached {
			continue
		}
		value, err := e.registry.compute(name, path)
		if err != nil {
			return err
		}
		if valuesEqual(old, value) {
			continue
		}
		e.logger.Verbose("%s of %s changed", name, path)
		rec.attrs[name] = value
		for _, dependent := range e.registry.cascade(name) {
			delete(rec.attrs, dependent)
		}
	}
	return nil
}

// Invalidate drops the selected cached attributes of each path that has a
// record. Existence and directory records are kept and nothing cascades.
func (e *Engine) Invalidate(paths []string, filter fscache.AttributeFilter) error {
	names, err := e.registry.resolve(filter)
	if err != nil {
		return err
	}
	for _, p := range paths {
		rec, ok := e.files.get(clean(p))
		if !ok {
			continue
		}
		// Keep the existence that was only implied by the attributes.
		if exists, known := rec.known(); known {
			rec.setExists(exists)
		}
		for _, name := range names {
			delete(rec.attrs, name)
		}
	}
	return nil
}
