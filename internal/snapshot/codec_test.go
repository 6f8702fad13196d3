package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fscache/pkg/fscache"
)

func sampleSnapshot() *fscache.Snapshot {
	return &fscache.Snapshot{
		Files: map[string]fscache.FileRecord{
			"/srv/a.bin": {Exists: fscache.Bool(true), Attributes: map[string]fscache.Value{
				"size":     int64(6),
				"checksum": "86C18187",
				"ratio":    0.5,
			}},
			"/srv/gone":    {Exists: fscache.Bool(false)},
			"/srv/unknown": {},
		},
		Dirs: map[string]fscache.DirRecord{
			"/srv": {
				Files:          []string{"a.bin"},
				Dirs:           []string{"empty"},
				RecursiveDirs:  fscache.Set("/srv/empty"),
				RecursiveFiles: fscache.Set("/srv/a.bin"),
			},
			"/srv/empty": {
				Files:          []string{},
				Dirs:           []string{},
				RecursiveDirs:  fscache.Set(),
				RecursiveFiles: fscache.Set(),
			},
			"/srv/listed": {Files: []string{"x"}, Dirs: []string{}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(sampleSnapshot(), format)
			require.NoError(t, err)

			decoded, err := Unmarshal(data, format)
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), decoded)
		})
	}
}

func TestEncode_JSONShape(t *testing.T) {
	data, err := Marshal(sampleSnapshot(), FormatJSON)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `"exist": false`)
	assert.Contains(t, out, `"recursive_files": []`, "computed empty sets must survive")
	assert.NotContains(t, out, `"attributes": null`)
}

func TestDecode_EmptySetsStayDistinctFromUncomputed(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(sampleSnapshot(), format)
			require.NoError(t, err)
			decoded, err := Unmarshal(data, format)
			require.NoError(t, err)

			require.NotNil(t, decoded.Dirs["/srv/empty"].RecursiveFiles)
			assert.Empty(t, *decoded.Dirs["/srv/empty"].RecursiveFiles)
			assert.Nil(t, decoded.Dirs["/srv/listed"].RecursiveFiles)
		})
	}
}

func TestDecode_NormalizesNumbers(t *testing.T) {
	input := `{"files": {"/f": {"attributes": {"size": 6, "ratio": 1.25, "nested": {"n": 2}}}}, "dirs": {}}`

	snap, err := Unmarshal([]byte(input), FormatJSON)
	require.NoError(t, err)
	attrs := snap.Files["/f"].Attributes
	assert.Equal(t, int64(6), attrs["size"])
	assert.Equal(t, 1.25, attrs["ratio"])
	assert.Equal(t, map[string]interface{}{"n": int64(2)}, attrs["nested"])
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"truncated json", FormatJSON, `{"files": {`},
		{"empty json", FormatJSON, ``},
		{"unknown field", FormatJSON, `{"files": {}, "dirs": {}, "version": 2}`},
		{"wrong type", FormatJSON, `{"files": []}`},
		{"bad yaml", FormatYAML, "files: [unterminated"},
		{"unknown yaml field", FormatYAML, "files: {}\nextra: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, fscache.ErrSerializationFormat)
		})
	}
}

func TestDecode_EmptyYAMLIsEmptySnapshot(t *testing.T) {
	snap, err := Unmarshal(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, fscache.NewSnapshot(), snap)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath(".fscache.json"))
	assert.Equal(t, FormatYAML, FormatForPath("cache.YAML"))
	assert.Equal(t, FormatYAML, FormatForPath("cache.yml"))
	assert.Equal(t, FormatJSON, FormatForPath("cache"))
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, nil, FormatJSON))
	assert.Error(t, Encode(&buf, fscache.NewSnapshot(), Format("toml")))
	_, err := Decode(strings.NewReader("{}"), Format("toml"))
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	for _, name := range []string{"cache.json", "nested/dir/cache.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, SaveFile(path, sampleSnapshot()))
			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), loaded)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files must not be left behind")
		})
	}
}

func TestSaveFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, SaveFile(path, sampleSnapshot()))
	require.NoError(t, SaveFile(path, fscache.NewSnapshot()))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.Files)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fscache.ErrSnapshotNotFound))
}

func TestLoadFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, fscache.ErrSerializationFormat)
}
