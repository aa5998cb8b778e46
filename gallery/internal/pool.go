// Package internal implements the gallery session: navigator state, the
// prefetch cache and the decode pool behind it.
//
// This package is INTERNAL - clients MUST use the public API in the parent package.
package internal

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// decodePool runs decode tasks concurrently, at most workers at a time.
//
// Submit never blocks the caller: every task gets its own goroutine which
// waits for a worker slot. There is no queue limit; the prefetch window
// bounds how much work is outstanding.
//
// Goroutine topology:
//   - 0 fixed
//   - 1 transient per submitted task (exits when the task returns)
type decodePool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup

	submitted atomic.Uint64
	running   atomic.Int64

	stoppedMu sync.Mutex
	stopped   bool
}

func newDecodePool(workers int) *decodePool {
	if workers < 1 {
		workers = 1
	}
	return &decodePool{sem: semaphore.NewWeighted(int64(workers))}
}

// Submit schedules fn. Tasks submitted after Stop still run, but Stop does
// not wait for them.
func (p *decodePool) Submit(fn func()) {
	p.stoppedMu.Lock()
	tracked := !p.stopped
	if tracked {
		p.wg.Add(1)
	}
	p.stoppedMu.Unlock()

	p.submitted.Add(1)

	go func() {
		if tracked {
			defer p.wg.Done()
		}
		// Background context: a started decode is never cancelled.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)

		p.running.Add(1)
		defer p.running.Add(-1)

		fn()
	}()
}

// Stop waits for every tracked task to return. Idempotent.
func (p *decodePool) Stop() {
	p.stoppedMu.Lock()
	p.stopped = true
	p.stoppedMu.Unlock()

	p.wg.Wait()
}

// Running returns the number of tasks currently holding a worker slot.
func (p *decodePool) Running() int64 { return p.running.Load() }

// Submitted returns the lifetime number of submitted tasks.
func (p *decodePool) Submitted() uint64 { return p.submitted.Load() }
