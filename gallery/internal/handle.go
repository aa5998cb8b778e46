package internal

import (
	"context"

	"github.com/e7canasta/peppermint/animated"
)

// Handle is what a navigation returns: the current entry plus its memoized
// decode. The image may not be resolved yet.
//
// A Handle stays valid after its cache entry is evicted; waiting on it
// still yields the decode result.
type Handle struct {
	Entry Entry
	// Index is the 0-based position of Entry in the folder
	Index int
	Count int

	future *Future[*animated.Image]
}

// Wait blocks until the image is decoded or ctx is done. A cancelled ctx
// does not cancel the decode.
func (h *Handle) Wait(ctx context.Context) (*animated.Image, error) {
	return h.future.Wait(ctx)
}

// Poll returns the decode result if it is available.
func (h *Handle) Poll() (Result[*animated.Image], bool) {
	return h.future.Poll()
}

// Ready returns a channel closed once the decode resolved.
func (h *Handle) Ready() <-chan struct{} {
	return h.future.Done()
}
