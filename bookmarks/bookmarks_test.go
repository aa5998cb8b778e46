package bookmarks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "bookmarks.msgpack"))
	require.NoError(t, err)

	_, _, ok := s.Last()
	assert.False(t, ok)
}

func TestTouchPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookmarks.msgpack")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Touch("/photos/a", "1.png"))
	require.NoError(t, s.Touch("/photos/b", "7.gif"))
	require.NoError(t, s.Touch("/photos/a", "3.png"))

	reopened, err := Open(path)
	require.NoError(t, err)

	folder, file, ok := reopened.Last()
	require.True(t, ok)
	assert.Equal(t, "/photos/a", folder)
	assert.Equal(t, "3.png", file)

	file, ok = reopened.FileIn("/photos/b")
	require.True(t, ok)
	assert.Equal(t, "7.gif", file)
}

func TestForget(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "b.msgpack"))
	require.NoError(t, err)

	require.NoError(t, s.Touch("/x", "a.png"))
	require.NoError(t, s.Forget("/x"))

	_, _, ok := s.Last()
	assert.False(t, ok)
	_, ok = s.FileIn("/x")
	assert.False(t, ok)
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.msgpack")
	require.NoError(t, os.WriteFile(path, []byte{0xc1, 0xff, 0x00}, 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestNoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "b.msgpack"))
	require.NoError(t, err)
	require.NoError(t, s.Touch("/x", "a.png"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.msgpack", entries[0].Name())
}
