package internal

import (
	"sort"

	"github.com/e7canasta/peppermint/animated"
)

// cacheEntry is one memoized decode in the prefetch cache.
type cacheEntry struct {
	entry  Entry
	future *Future[*animated.Image]
}

// prefetchCache maps entry ids to memoized decode handles, ordered by id.
//
// It is the sole long-lived owner of decoded images: dropping an entry frees
// its pixels once no reader holds the handle. Dropping never waits for an
// in-flight decode; the decode finishes and its result is discarded.
//
// Not safe for concurrent use; the session lock guards it.
type prefetchCache struct {
	ids     []string // sorted ascending
	entries map[string]*cacheEntry

	// newFuture creates the (not yet started) decode handle for an entry.
	newFuture func(Entry) *Future[*animated.Image]

	started   uint64
	hits      uint64
	evictions uint64
}

func newPrefetchCache(newFuture func(Entry) *Future[*animated.Image]) *prefetchCache {
	return &prefetchCache{
		entries:   make(map[string]*cacheEntry),
		newFuture: newFuture,
	}
}

// recomputeResult summarises one recompute for logging.
type recomputeResult struct {
	started int
	evicted int
}

// recompute anchors the window at entries[current]:
//
//  1. Evict every id strictly before the current entry's id.
//  2. For each of entries[current : current+windowSize) not cached, create
//     its handle and start it (fire-and-forget).
//  3. Drop ids from the tail until at most windowSize remain.
//
// Afterwards the current entry is cached and len(ids) <= windowSize.
func (c *prefetchCache) recompute(entries []Entry, current, windowSize int) recomputeResult {
	var res recomputeResult
	if current < 0 || current >= len(entries) || windowSize < 1 {
		return res
	}
	anchor := entries[current].ID()

	// 1. behind the reader
	cut := sort.SearchStrings(c.ids, anchor)
	for _, id := range c.ids[:cut] {
		delete(c.entries, id)
		res.evicted++
	}
	c.ids = append(c.ids[:0], c.ids[cut:]...)

	// 2. read-ahead window
	end := min(current+windowSize, len(entries))
	for _, e := range entries[current:end] {
		id := e.ID()
		if _, ok := c.entries[id]; ok {
			c.hits++
			continue
		}
		f := c.newFuture(e)
		c.insert(id, &cacheEntry{entry: e, future: f})
		f.Start()
		c.started++
		res.started++
	}

	// 3. trim the tail
	for len(c.ids) > windowSize {
		last := c.ids[len(c.ids)-1]
		delete(c.entries, last)
		c.ids = c.ids[:len(c.ids)-1]
		res.evicted++
	}

	c.evictions += uint64(res.evicted)
	return res
}

func (c *prefetchCache) insert(id string, ce *cacheEntry) {
	i := sort.SearchStrings(c.ids, id)
	c.ids = append(c.ids, "")
	copy(c.ids[i+1:], c.ids[i:])
	c.ids[i] = id
	c.entries[id] = ce
}

func (c *prefetchCache) get(e Entry) (*cacheEntry, bool) {
	ce, ok := c.entries[e.ID()]
	return ce, ok
}

// reset drops every entry (new folder opened).
func (c *prefetchCache) reset() {
	c.evictions += uint64(len(c.ids))
	c.ids = c.ids[:0]
	clear(c.entries)
}

func (c *prefetchCache) size() int { return len(c.ids) }

// names returns the cached file names in id order.
func (c *prefetchCache) names() []string {
	out := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.entries[id].entry.Name)
	}
	return out
}
