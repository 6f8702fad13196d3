package checksum

import (
	"path/filepath"

	"github.com/vvka-141/fscache/pkg/fscache"
)

// Diff compares the files directly inside two directories by content.
// All names are basenames.
type Diff struct {
	Same      []string    `json:"same" yaml:"same"`
	Renamed   [][2]string `json:"renamed" yaml:"renamed"` // {name in dir1, name in dir2}
	Added     []string    `json:"added" yaml:"added"`
	Deleted   []string    `json:"deleted" yaml:"deleted"`
	Different []string    `json:"different" yaml:"different"`
}

// DiffDirs compares dir1 (before) with dir2 (after).
//
// Files present under the same name in both are Same or Different depending on
// their checksums. Among the remaining files, a file of dir1 whose checksum
// matches a remaining file of dir2 is Renamed; what is left over is Deleted
// from dir1 or Added in dir2. Every checksum is read through q, so repeated
// diffs reuse cached values.
func DiffDirs(q fscache.Querier, dir1, dir2 string) (*Diff, error) {
	names1, err := q.FilesIn(dir1)
	if err != nil {
		return nil, err
	}
	names2, err := q.FilesIn(dir2)
	if err != nil {
		return nil, err
	}

	sumOf := func(dir, name string) (string, error) {
		sum, _, err := Of(q, filepath.Join(dir, name))
		return sum, err
	}

	diff := &Diff{
		Same:      []string{},
		Renamed:   [][2]string{},
		Added:     []string{},
		Deleted:   []string{},
		Different: []string{},
	}

	var remaining1 []string
	remaining2 := make(map[string]bool, len(names2))
	for _, name := range names2 {
		remaining2[name] = true
	}

	for _, name := range names1 {
		if !remaining2[name] {
			remaining1 = append(remaining1, name)
			continue
		}
		delete(remaining2, name)
		sum1, err := sumOf(dir1, name)
		if err != nil {
			return nil, err
		}
		sum2, err := sumOf(dir2, name)
		if err != nil {
			return nil, err
		}
		if sum1 == sum2 {
			diff.Same = append(diff.Same, name)
		} else {
			diff.Different = append(diff.Different, name)
		}
	}

	for _, name1 := range remaining1 {
		sum1, err := sumOf(dir1, name1)
		if err != nil {
			return nil, err
		}
		match := ""
		for _, name2 := range names2 {
			if !remaining2[name2] {
				continue
			}
			sum2, err := sumOf(dir2, name2)
			if err != nil {
				return nil, err
			}
			if sum1 == sum2 {
				match = name2
				break
			}
		}
		if match == "" {
			diff.Deleted = append(diff.Deleted, name1)
			continue
		}
		delete(remaining2, match)
		diff.Renamed = append(diff.Renamed, [2]string{name1, match})
	}

	for _, name := range names2 {
		if remaining2[name] {
			diff.Added = append(diff.Added, name)
		}
	}
	return diff, nil
}
