package cache

import (
	"fmt"
	"path/filepath"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// listing returns the directory record of dir, reading the directory once on first use.
func (e *Engine) listing(dir string) (*dirRecord, error) {
	if rec, ok := e.dirs.get(dir); ok {
		return rec, nil
	}

	e.logger.Verbose("listing %s", dir)
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	rec := newDirRecord()
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if entry.IsDir() {
			rec.dirs.add(name)
		} else {
			rec.files.add(name)
		}
	}
	e.dirs.put(dir, rec)
	return rec, nil
}

// FilesIn returns the sorted basenames of the files directly inside dir.
func (e *Engine) FilesIn(dir string) ([]string, error) {
	rec, err := e.listing(clean(dir))
	if err != nil {
		return nil, err
	}
	return rec.files.sorted(), nil
}

// DirsIn returns the sorted basenames of the directories directly inside dir.
func (e *Engine) DirsIn(dir string) ([]string, error) {
	rec, err := e.listing(clean(dir))
	if err != nil {
		return nil, err
	}
	return rec.dirs.sorted(), nil
}

// RecursiveDirsFrom returns the sorted full paths of every directory below dir.
func (e *Engine) RecursiveDirsFrom(dir string) ([]string, error) {
	result, err := e.recursiveDirs(clean(dir), 0)
	if err != nil {
		return nil, err
	}
	return result.sorted(), nil
}

// RecursiveFilesFrom returns the sorted full paths of every file below dir.
func (e *Engine) RecursiveFilesFrom(dir string) ([]string, error) {
	result, err := e.recursiveFiles(clean(dir), 0)
	if err != nil {
		return nil, err
	}
	return result.sorted(), nil
}

func (e *Engine) recursiveDirs(dir string, depth int) (set, error) {
	rec, err := e.listing(dir)
	if err != nil {
		return nil, err
	}
	if rec.recursiveDirs != nil {
		return rec.recursiveDirs, nil
	}
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w: %s is more than %d levels deep", fscache.ErrTraversalDepth, dir, e.maxDepth)
	}

	result := make(set)
	for _, name := range rec.dirs.sorted() {
		sub := filepath.Join(dir, name)
		result.add(sub)
		nested, err := e.recursiveDirs(sub, depth+1)
		if err != nil {
			return nil, err
		}
		for p := range nested {
			result.add(p)
		}
	}
	rec.recursiveDirs = result
	return result, nil
}

func (e *Engine) recursiveFiles(dir string, depth int) (set, error) {
	rec, err := e.listing(dir)
	if err != nil {
		return nil, err
	}
	if rec.recursiveFiles != nil {
		return rec.recursiveFiles, nil
	}
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w: %s is more than %d levels deep", fscache.ErrTraversalDepth, dir, e.maxDepth)
	}

	result := make(set)
	for name := range rec.files {
		result.add(filepath.Join(dir, name))
	}
	for _, name := range rec.dirs.sorted() {
		nested, err := e.recursiveFiles(filepath.Join(dir, name), depth+1)
		if err != nil {
			return nil, err
		}
		for p := range nested {
			result.add(p)
		}
	}
	rec.recursiveFiles = result
	return result, nil
}
