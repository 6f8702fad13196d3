package fscache

// Snapshot is the complete, codec-agnostic state of both record stores.
// It is a plain nested structure keyed by strings; any codec can carry it.
// The attribute registry is not part of it.
type Snapshot struct {
	Files map[string]FileRecord `json:"files" yaml:"files"`
	Dirs  map[string]DirRecord  `json:"dirs" yaml:"dirs"`
}

// FileRecord is the persisted form of a file record.
// A nil Exists means existence was never determined.
type FileRecord struct {
	Exists     *bool            `json:"exist,omitempty" yaml:"exist,omitempty"`
	Attributes map[string]Value `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// DirRecord is the persisted form of a directory record.
// Files and Dirs hold basenames; the recursive sets hold full paths.
// A nil recursive set was never computed; a pointer to an empty slice was
// computed and is empty.
type DirRecord struct {
	Files          []string  `json:"files" yaml:"files"`
	Dirs           []string  `json:"dirs" yaml:"dirs"`
	RecursiveDirs  *[]string `json:"recursive_dirs,omitempty" yaml:"recursive_dirs,omitempty"`
	RecursiveFiles *[]string `json:"recursive_files,omitempty" yaml:"recursive_files,omitempty"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Files: make(map[string]FileRecord),
		Dirs:  make(map[string]DirRecord),
	}
}

// Set returns a pointer to a copy of members, for building DirRecord recursive sets.
func Set(members ...string) *[]string {
	s := make([]string, len(members))
	copy(s, members)
	return &s
}

// Bool returns a pointer to b, for building FileRecord values.
func Bool(b bool) *bool {
	return &b
}
