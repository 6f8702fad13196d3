package cache

import (
	"maps"
	"slices"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// fileRecord holds what is known about one path. A nil exists means unknown;
// attrs only holds attributes that were actually computed.
type fileRecord struct {
	exists *bool
	attrs  map[string]fscache.Value
}

func (r *fileRecord) setExists(v bool) {
	r.exists = &v
}

// known reports the existence flag, inferring true from cached attributes.
func (r *fileRecord) known() (exists bool, ok bool) {
	if r.exists != nil {
		return *r.exists, true
	}
	if len(r.attrs) > 0 {
		return true, true
	}
	return false, false
}

func (r *fileRecord) clone() *fileRecord {
	c := &fileRecord{attrs: maps.Clone(r.attrs)}
	if r.exists != nil {
		c.setExists(*r.exists)
	}
	if c.attrs == nil {
		c.attrs = make(map[string]fscache.Value)
	}
	return c
}

// fileStore maps clean paths to file records.
type fileStore struct {
	records map[string]*fileRecord
}

func newFileStore() *fileStore {
	return &fileStore{records: make(map[string]*fileRecord)}
}

func (s *fileStore) get(path string) (*fileRecord, bool) {
	rec, ok := s.records[path]
	return rec, ok
}

// getOrCreate returns the record for path, creating an empty one on first reference.
func (s *fileStore) getOrCreate(path string) *fileRecord {
	rec, ok := s.records[path]
	if !ok {
		rec = &fileRecord{attrs: make(map[string]fscache.Value)}
		s.records[path] = rec
	}
	return rec
}

// reset replaces the record for path with one that only knows its existence.
func (s *fileStore) reset(path string, exists bool) *fileRecord {
	rec := &fileRecord{attrs: make(map[string]fscache.Value)}
	rec.setExists(exists)
	s.records[path] = rec
	return rec
}

func (s *fileStore) put(path string, rec *fileRecord) {
	s.records[path] = rec
}

func (s *fileStore) delete(path string) {
	delete(s.records, path)
}

func (s *fileStore) paths() []string {
	return slices.Sorted(maps.Keys(s.records))
}

func (s *fileStore) len() int {
	return len(s.records)
}

// set is a string set.
type set map[string]struct{}

func (s set) add(member string) {
	s[member] = struct{}{}
}

func (s set) has(member string) bool {
	_, ok := s[member]
	return ok
}

func (s set) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

func setOf(members []string) set {
	s := make(set, len(members))
	for _, m := range members {
		s.add(m)
	}
	return s
}

// dirRecord holds the listing of one directory. A record is only stored once
// the directory has been read; the recursive sets stay nil until first requested.
type dirRecord struct {
	files          set
	dirs           set
	recursiveDirs  set
	recursiveFiles set
}

func newDirRecord() *dirRecord {
	return &dirRecord{files: make(set), dirs: make(set)}
}

// memoized reports whether both recursive sets have been computed.
func (r *dirRecord) memoized() bool {
	return r.recursiveDirs != nil && r.recursiveFiles != nil
}

// dirStore maps clean directory paths to listed directory records.
type dirStore struct {
	records map[string]*dirRecord
}

func newDirStore() *dirStore {
	return &dirStore{records: make(map[string]*dirRecord)}
}

func (s *dirStore) get(path string) (*dirRecord, bool) {
	rec, ok := s.records[path]
	return rec, ok
}

func (s *dirStore) put(path string, rec *dirRecord) {
	s.records[path] = rec
}

func (s *dirStore) paths() []string {
	return slices.Sorted(maps.Keys(s.records))
}

func (s *dirStore) len() int {
	return len(s.records)
}

func (s *dirStore) clear() {
	clear(s.records)
}
