package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fscache/pkg/fscache"
)

func TestNotifyCopied_CarriesAttributes(t *testing.T) {
	f := newFixture()
	size, content := f.withAttributes()
	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/a", "content")
	require.NoError(t, err)

	f.engine.NotifyCopied("/d/a", "/d/copy")

	f.counting.Reset()
	value, ok, err := f.engine.Attribute("/d/copy", "size")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), value)
	value, _, err = f.engine.Attribute("/d/copy", "content")
	require.NoError(t, err)
	assert.Equal(t, "123456", value)

	assert.Zero(t, size.callsFor("/d/copy"))
	assert.Zero(t, content.callsFor("/d/copy"))
	assert.Zero(t, f.counting.Total())
}

func TestNotifyCopied_RecordsAreIndependent(t *testing.T) {
	f := newFixture()
	f.withAttributes()
	_, _, err := f.engine.Attribute("/d/a", "size")
	require.NoError(t, err)

	f.engine.NotifyCopied("/d/a", "/d/copy")
	require.NoError(t, f.engine.Invalidate([]string{"/d/copy"}, fscache.AllAttributes))

	assert.Contains(t, f.engine.Export().Files["/d/a"].Attributes, "size")
}

func TestNotifyCopied_UncachedSource(t *testing.T) {
	f := newFixture()

	f.engine.NotifyCopied("/x/src", "/x/dst")

	for _, p := range []string{"/x/src", "/x/dst"} {
		exists, err := f.engine.Exists(p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}
	assert.Zero(t, f.counting.Total())
}

func TestNotifyCopied_PatchesListings(t *testing.T) {
	f := newFixture()
	_, err := f.engine.RecursiveFilesFrom("/d")
	require.NoError(t, err)

	f.engine.NotifyCopied("/d/a", "/d/sub/deep/a2")

	f.counting.Reset()
	files, err := f.engine.FilesIn("/d/sub/deep")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "e"}, files)

	all, err := f.engine.RecursiveFilesFrom("/d")
	require.NoError(t, err)
	assert.Contains(t, all, "/d/sub/deep/a2")

	sub, err := f.engine.RecursiveFilesFrom("/d/sub")
	require.NoError(t, err)
	assert.Contains(t, sub, "/d/sub/deep/a2")
	assert.Zero(t, f.counting.Total())
}

func TestNotifyRemoved(t *testing.T) {
	f := newFixture()
	f.withAttributes()
	_, err := f.engine.RecursiveFilesFrom("/d")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/sub/c", "size")
	require.NoError(t, err)

	f.engine.NotifyRemoved("/d/sub/c")

	f.counting.Reset()
	exists, err := f.engine.Exists("/d/sub/c")
	require.NoError(t, err)
	assert.False(t, exists)

	_, ok, err := f.engine.Attribute("/d/sub/c", "size")
	require.NoError(t, err)
	assert.False(t, ok)

	files, err := f.engine.FilesIn("/d/sub")
	require.NoError(t, err)
	assert.Empty(t, files)

	all, err := f.engine.RecursiveFilesFrom("/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/a", "/d/b", "/d/sub/deep/e"}, all)
	assert.Zero(t, f.counting.Total())
}

func TestNotifyRemoved_UnlistedParent(t *testing.T) {
	f := newFixture()

	f.engine.NotifyRemoved("/d/a")

	assert.Zero(t, f.engine.Stats().Dirs, "notifications must not create directory records")
	exists, err := f.engine.Exists("/d/a")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, f.counting.Total())
}

func TestNotifyMoved(t *testing.T) {
	f := newFixture()
	size, _ := f.withAttributes()
	_, err := f.engine.FilesIn("/d")
	require.NoError(t, err)
	_, _, err = f.engine.Attribute("/d/b", "size")
	require.NoError(t, err)

	f.engine.NotifyMoved("/d/b", "/d/renamed")

	f.counting.Reset()
	files, err := f.engine.FilesIn("/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "renamed"}, files)

	value, ok, err := f.engine.Attribute("/d/renamed", "size")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), value)

	gone, err := f.engine.Exists("/d/b")
	require.NoError(t, err)
	assert.False(t, gone)
	assert.Zero(t, f.counting.Total())
	assert.Equal(t, 1, size.total())
}
