package cache

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// Export returns the complete state of both record stores. The snapshot shares
// nothing with the engine.
func (e *Engine) Export() *fscache.Snapshot {
	snap := fscache.NewSnapshot()
	for path, rec := range e.files.records {
		var fr fscache.FileRecord
		if rec.exists != nil {
			fr.Exists = fscache.Bool(*rec.exists)
		}
		if len(rec.attrs) > 0 {
			fr.Attributes = maps.Clone(rec.attrs)
		}
		snap.Files[path] = fr
	}
	for path, rec := range e.dirs.records {
		dr := fscache.DirRecord{
			Files: rec.files.sorted(),
			Dirs:  rec.dirs.sorted(),
		}
		if rec.recursiveDirs != nil {
			dr.RecursiveDirs = fscache.Set(rec.recursiveDirs.sorted()...)
		}
		if rec.recursiveFiles != nil {
			dr.RecursiveFiles = fscache.Set(rec.recursiveFiles.sorted()...)
		}
		snap.Dirs[path] = dr
	}
	return snap
}

// Import replaces both record stores with the content of snap. Cached values are
// trusted as they are; the attribute registry is left untouched. On error the
// engine is unchanged.
func (e *Engine) Import(snap *fscache.Snapshot) error {
	if snap == nil {
		return &fscache.SerializationFormatError{Reason: "snapshot is nil"}
	}

	files := newFileStore()
	for path, fr := range snap.Files {
		if err := validPath(path); err != nil {
			return &fscache.SerializationFormatError{Reason: "file record key", Err: err}
		}
		if fr.Exists != nil && !*fr.Exists && len(fr.Attributes) > 0 {
			return &fscache.SerializationFormatError{
				Reason: fmt.Sprintf("file record %s holds attributes but does not exist", path),
			}
		}
		rec := &fileRecord{attrs: make(map[string]fscache.Value, len(fr.Attributes))}
		if fr.Exists != nil {
			rec.setExists(*fr.Exists)
		}
		for name, value := range fr.Attributes {
			if name == "" {
				return &fscache.SerializationFormatError{Reason: fmt.Sprintf("file record %s has an unnamed attribute", path)}
			}
			rec.attrs[name] = value
		}
		files.put(clean(path), rec)
	}

	dirs := newDirStore()
	for path, dr := range snap.Dirs {
		if err := validPath(path); err != nil {
			return &fscache.SerializationFormatError{Reason: "directory record key", Err: err}
		}
		rec := newDirRecord()
		for _, name := range dr.Files {
			if err := validBasename(name); err != nil {
				return &fscache.SerializationFormatError{Reason: fmt.Sprintf("files of %s", path), Err: err}
			}
			rec.files.add(name)
		}
		for _, name := range dr.Dirs {
			if err := validBasename(name); err != nil {
				return &fscache.SerializationFormatError{Reason: fmt.Sprintf("dirs of %s", path), Err: err}
			}
			rec.dirs.add(name)
		}
		var err error
		if rec.recursiveDirs, err = importSet(dr.RecursiveDirs); err != nil {
			return &fscache.SerializationFormatError{Reason: fmt.Sprintf("recursive dirs of %s", path), Err: err}
		}
		if rec.recursiveFiles, err = importSet(dr.RecursiveFiles); err != nil {
			return &fscache.SerializationFormatError{Reason: fmt.Sprintf("recursive files of %s", path), Err: err}
		}
		dirs.put(clean(path), rec)
	}

	e.files = files
	e.dirs = dirs
	e.logger.Verbose("imported %d file records and %d directory records", files.len(), dirs.len())
	return nil
}

func importSet(members *[]string) (set, error) {
	if members == nil {
		return nil, nil
	}
	s := make(set, len(*members))
	for _, m := range *members {
		if err := validPath(m); err != nil {
			return nil, err
		}
		s.add(clean(m))
	}
	return s, nil
}

func validPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}
	return nil
}

func validBasename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid entry name %q", name)
	}
	return nil
}
