package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fscache/pkg/fscache"
)

func TestCheck_AppearedFile(t *testing.T) {
	f := newFixture()
	f.engine.NotifyRemoved("/d/a")

	require.NoError(t, f.engine.Check(fscache.AllAttributes))

	rec := f.engine.Export().Files["/d/a"]
	require.NotNil(t, rec.Exists)
	assert.True(t, *rec.Exists)
	assert.Empty(t, rec.Attributes)
}

func TestCheck_VanishedFile(t *testing.T) {
	f := newFixture()
	f.withAttributes()
	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)

	f.mem.Remove("/d/a")
	require.NoError(t, f.engine.Check(fscache.AllAttributes))

	rec := f.engine.Export().Files["/d/a"]
	require.NotNil(t, rec.Exists)
	assert.False(t, *rec.Exists)
	assert.Empty(t, rec.Attributes)

	f.counting.Reset()
	exists, err := f.engine.Exists("/d/a")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, f.counting.Total())
}

func TestCheck_UnknownRecordResolved(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.engine.Import(&fscache.Snapshot{
		Files: map[string]fscache.FileRecord{
			"/d/a":    {},
			"/d/gone": {},
		},
	}))

	require.NoError(t, f.engine.Check(fscache.AllAttributes))

	files := f.engine.Export().Files
	assert.Equal(t, fscache.Bool(true), files["/d/a"].Exists)
	assert.Equal(t, fscache.Bool(false), files["/d/gone"].Exists)
}

func TestCheck_CascadesToDependents(t *testing.T) {
	f := newFixture()
	size, content := f.withAttributes()

	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/a", "content")
	require.NoError(t, err)

	f.mem.AddFile("/d/a", "1234567")
	require.NoError(t, f.engine.Check(fscache.AllAttributes))

	rec := f.engine.Export().Files["/d/a"]
	assert.Equal(t, int64(7), rec.Attributes["size"])
	assert.NotContains(t, rec.Attributes, "content", "dependent must be dropped, not recomputed")
	assert.Equal(t, 2, size.callsFor("/d/a"))
	assert.Equal(t, 1, content.callsFor("/d/a"))

	value, ok, err := f.engine.Attribute("/d/a", "content")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1234567", value)
	assert.Equal(t, 2, content.callsFor("/d/a"))
}

func TestCheck_UnchangedValueKeepsDependents(t *testing.T) {
	f := newFixture()
	_, content := f.withAttributes()

	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/a", "content")
	require.NoError(t, err)

	// Same size, different content: content is re-evaluated itself.
	f.mem.AddFile("/d/a", "654321")
	require.NoError(t, f.engine.Check(fscache.AllAttributes))

	rec := f.engine.Export().Files["/d/a"]
	assert.Equal(t, int64(6), rec.Attributes["size"])
	assert.Equal(t, "654321", rec.Attributes["content"])
	assert.Equal(t, 2, content.callsFor("/d/a"))
}

func TestCheck_OnlyRecomputesCachedAttributes(t *testing.T) {
	f := newFixture()
	size, content := f.withAttributes()

	_, _, err := f.engine.Attribute("/d/b", "size")
	require.NoError(t, err)

	require.NoError(t, f.engine.Check(fscache.AllAttributes))
	assert.Equal(t, 2, size.callsFor("/d/b"))
	assert.Zero(t, content.total())
}

func TestCheck_Filter(t *testing.T) {
	f := newFixture()
	size, content := f.withAttributes()
	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/a", "content")
	require.NoError(t, err)

	f.mem.AddFile("/d/a", "abcdefgh")
	require.NoError(t, f.engine.Check(fscache.Except("size")))

	rec := f.engine.Export().Files["/d/a"]
	assert.Equal(t, int64(6), rec.Attributes["size"], "excluded attribute must stay stale")
	assert.Equal(t, "abcdefgh", rec.Attributes["content"])
	assert.Equal(t, 1, size.callsFor("/d/a"))
	assert.Equal(t, 2, content.callsFor("/d/a"))

	err = f.engine.Check(fscache.Only("colour"))
	assert.ErrorIs(t, err, fscache.ErrUnknownAttribute)
}

func TestCheck_ClearsDirectoryRecords(t *testing.T) {
	f := newFixture()
	_, err := f.engine.RecursiveFilesFrom("/d")
	require.NoError(t, err)

	f.mem.AddFile("/d/new", "n")
	require.NoError(t, f.engine.Check(fscache.AllAttributes))
	assert.Zero(t, f.engine.Stats().Dirs)

	f.counting.Reset()
	files, err := f.engine.FilesIn("/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "new"}, files)
	assert.Equal(t, 1, f.counting.Count("readdir"))
}

func TestCheck_ErrorStillClearsDirectories(t *testing.T) {
	f := newFixture()
	_, err := f.engine.Exists("/d/a")
	require.NoError(t, err)
	_, err = f.engine.FilesIn("/d")
	require.NoError(t, err)

	denied := errors.New("permission denied")
	f.mem.FailOn("/d/a", denied)

	err = f.engine.Check(fscache.AllAttributes)
	require.Error(t, err)
	assert.ErrorIs(t, err, denied)
	assert.Zero(t, f.engine.Stats().Dirs)
}

func TestCheck_ReportsProgress(t *testing.T) {
	var titles []string
	var last [2]int
	f := newFixture(WithProgress(func(title string, done, total int) {
		titles = append(titles, title)
		last = [2]int{done, total}
	}))
	for _, p := range []string{"/d/a", "/d/b", "/d/zzz"} {
		_, err := f.engine.Exists(p)
		require.NoError(t, err)
	}

	require.NoError(t, f.engine.Check(fscache.AllAttributes))
	require.Len(t, titles, 4)
	assert.Equal(t, fscache.ProgressTitleCheck, titles[0])
	assert.Equal(t, [2]int{3, 3}, last)
}

func TestInvalidate(t *testing.T) {
	f := newFixture()
	size, content := f.withAttributes()
	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/a", "content")
	require.NoError(t, err)

	require.NoError(t, f.engine.Invalidate([]string{"/d/a", "/unknown"}, fscache.Only("size")))

	rec := f.engine.Export().Files["/d/a"]
	assert.NotContains(t, rec.Attributes, "size")
	assert.Contains(t, rec.Attributes, "content", "invalidation must not cascade")
	assert.NotContains(t, f.engine.Export().Files, "/unknown")

	f.counting.Reset()
	_, _, err = f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)
	assert.Equal(t, 2, size.callsFor("/d/a"))
	assert.Equal(t, 1, content.callsFor("/d/a"))
	assert.Equal(t, 1, f.counting.Count("stat"), "only the plugin may touch the filesystem")
	assert.Zero(t, f.counting.Count("exists"))
}

func TestInvalidate_KeepsImpliedExistence(t *testing.T) {
	f := newFixture()
	f.withAttributes()
	require.NoError(t, f.engine.Import(&fscache.Snapshot{
		Files: map[string]fscache.FileRecord{
			"/d/a": {Attributes: map[string]fscache.Value{"size": int64(6)}},
		},
	}))

	require.NoError(t, f.engine.Invalidate([]string{"/d/a"}, fscache.AllAttributes))

	exists, err := f.engine.Exists("/d/a")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Zero(t, f.counting.Total())
}
