package cache

import (
	"path/filepath"
)

// NotifyRemoved records that path was deleted. Nothing is verified.
func (e *Engine) NotifyRemoved(path string) {
	path = clean(path)
	e.logger.Verbose("notified removal of %s", path)
	e.files.reset(path, false)
	e.unregisterFile(path)
}

// NotifyCopied records that src was copied to dst. Cached attributes of src
// carry over to dst, and both are then known to exist.
func (e *Engine) NotifyCopied(src, dst string) {
	src, dst = clean(src), clean(dst)
	e.logger.Verbose("notified copy of %s to %s", src, dst)

	if rec, ok := e.files.get(src); ok {
		rec.setExists(true)
		e.files.put(dst, rec.clone())
	} else {
		e.files.reset(src, true)
		e.files.reset(dst, true)
	}
	e.registerFile(dst)
}

// NotifyMoved records that src was renamed to dst.
func (e *Engine) NotifyMoved(src, dst string) {
	e.NotifyCopied(src, dst)
	e.NotifyRemoved(src)
}

// registerFile adds path to its parent's listing and to every memoized
// recursive file set above it. Records not yet read are left alone.
func (e *Engine) registerFile(path string) {
	if parent, ok := e.dirs.get(filepath.Dir(path)); ok {
		parent.files.add(filepath.Base(path))
	}
	e.eachAncestor(path, func(rec *dirRecord) {
		if rec.recursiveFiles != nil {
			rec.recursiveFiles.add(path)
		}
	})
}

func (e *Engine) unregisterFile(path string) {
	if parent, ok := e.dirs.get(filepath.Dir(path)); ok {
		delete(parent.files, filepath.Base(path))
	}
	e.eachAncestor(path, func(rec *dirRecord) {
		if rec.recursiveFiles != nil {
			delete(rec.recursiveFiles, path)
		}
	})
}

// eachAncestor calls fn for the held record of every directory above path.
func (e *Engine) eachAncestor(path string, fn func(*dirRecord)) {
	dir := filepath.Dir(path)
	for {
		if rec, ok := e.dirs.get(dir); ok {
			fn(rec)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
