package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e7canasta/peppermint/animated"
)

func numberedEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = newEntry(fmt.Sprintf("img%d.png", i))
	}
	return entries
}

// recordingCache returns a cache whose futures resolve synchronously and a
// map counting how often each name was decoded.
func recordingCache() (*prefetchCache, map[string]int) {
	decoded := make(map[string]int)
	c := newPrefetchCache(func(e Entry) *Future[*animated.Image] {
		return NewFuture(func() (*animated.Image, error) {
			decoded[e.Name]++
			return &animated.Image{Name: e.Name}, nil
		}, func(fn func()) { fn() })
	})
	return c, decoded
}

func TestRecomputeWindowForwardFromCurrent(t *testing.T) {
	entries := numberedEntries(10)
	c, decoded := recordingCache()

	res := c.recompute(entries, 5, 3)

	assert.Equal(t, []string{"img5.png", "img6.png", "img7.png"}, c.names())
	assert.Equal(t, 3, res.started)
	assert.Equal(t, 0, res.evicted)
	assert.Equal(t, map[string]int{"img5.png": 1, "img6.png": 1, "img7.png": 1}, decoded)
}

func TestRecomputeNeverExceedsWindow(t *testing.T) {
	entries := numberedEntries(10)
	c, _ := recordingCache()

	for _, current := range []int{5, 6, 9, 2, 0, 3, 8, 7} {
		c.recompute(entries, current, 3)
		require.LessOrEqual(t, c.size(), 3, "current=%d", current)

		_, ok := c.get(entries[current])
		require.True(t, ok, "current entry cached at %d", current)
	}
}

func TestRecomputeSlidingForwardReusesHandles(t *testing.T) {
	entries := numberedEntries(10)
	c, decoded := recordingCache()

	c.recompute(entries, 5, 3)
	res := c.recompute(entries, 6, 3)

	assert.Equal(t, []string{"img6.png", "img7.png", "img8.png"}, c.names())
	assert.Equal(t, 1, res.started)
	assert.Equal(t, 1, res.evicted)
	assert.Equal(t, 1, decoded["img6.png"])
	assert.Equal(t, 1, decoded["img7.png"])
	assert.Equal(t, uint64(2), c.hits)
}

func TestRecomputeBackwardRedecodesAndTrimsTail(t *testing.T) {
	entries := numberedEntries(10)
	c, decoded := recordingCache()

	c.recompute(entries, 5, 3)
	c.recompute(entries, 6, 3)
	c.recompute(entries, 5, 3)

	assert.Equal(t, []string{"img5.png", "img6.png", "img7.png"}, c.names())
	assert.Equal(t, 2, decoded["img5.png"], "evicted entry behind the reader is decoded again")
}

func TestRecomputeNearEnd(t *testing.T) {
	entries := numberedEntries(4)
	c, _ := recordingCache()

	c.recompute(entries, 3, 3)
	assert.Equal(t, []string{"img3.png"}, c.names())
}

func TestRecomputeIgnoresInvalidAnchor(t *testing.T) {
	c, _ := recordingCache()

	res := c.recompute(nil, 0, 3)
	assert.Equal(t, recomputeResult{}, res)
	assert.Equal(t, 0, c.size())
}

func TestCacheResetCountsEvictions(t *testing.T) {
	entries := numberedEntries(10)
	c, _ := recordingCache()

	c.recompute(entries, 0, 4)
	c.reset()

	assert.Equal(t, 0, c.size())
	assert.Equal(t, uint64(4), c.evictions)
}

func TestCollidingNaturalKeysStayDistinct(t *testing.T) {
	entries := []Entry{newEntry("img2.png"), newEntry("img002.png")}
	require.Equal(t, entries[0].Key, entries[1].Key)

	c, decoded := recordingCache()
	c.recompute(entries, 0, 2)

	assert.Equal(t, 2, c.size())
	assert.Len(t, decoded, 2)
}
