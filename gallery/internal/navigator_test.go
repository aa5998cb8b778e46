package internal

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowSet(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestListEntriesNaturalOrderAndFilter(t *testing.T) {
	fsys := fstest.MapFS{
		"img10.png":  {Data: []byte("x")},
		"img2.png":   {Data: []byte("x")},
		"img1.gif":   {Data: []byte("x")},
		"IMG3.PNG":   {Data: []byte("x")},
		"readme.txt": {Data: []byte("x")},
		"sub/a.png":  {Data: []byte("x")},
	}

	entries, err := listEntries(fsys, allowSet(".png", ".gif"))
	require.NoError(t, err)
	assert.Equal(t, []string{"img1.gif", "img2.png", "img10.png"}, names(entries))
}

func TestNavigatorBoundaries(t *testing.T) {
	var n navigator
	n.reset("f", numberedEntries(3), "")

	assert.False(t, n.prev(), "prev at first entry")
	assert.Equal(t, 0, n.current)

	assert.True(t, n.next())
	assert.True(t, n.next())
	assert.False(t, n.next(), "next at last entry does not wrap")
	assert.Equal(t, 2, n.current)

	assert.True(t, n.first())
	assert.Equal(t, 0, n.current)
	assert.True(t, n.last())
	assert.Equal(t, 2, n.current)
}

func TestNavigatorPreferredEntry(t *testing.T) {
	var n navigator

	n.reset("f", numberedEntries(5), "img3.png")
	assert.Equal(t, 3, n.current)

	n.reset("f", numberedEntries(5), "missing.png")
	assert.Equal(t, 0, n.current)
}

func TestNavigatorEmpty(t *testing.T) {
	var n navigator
	n.reset("f", nil, "")

	_, ok := n.entry()
	assert.False(t, ok)
	assert.False(t, n.next())
	assert.False(t, n.prev())
	assert.False(t, n.first())
	assert.False(t, n.last())
}
