package internal

import (
	"context"
	"sync"
)

// Future is a memoized asynchronous value: the first Start (or Wait) runs
// the work exactly once, every later call observes the same result.
//
// Resolution is observed with a blocking Wait or a non-blocking Poll.
// Neither ever re-triggers the work. Work is never cancelled once started.
type Future[T any] struct {
	once sync.Once
	work func() (T, error)
	run  func(func()) // executor for the work; runs fn on some goroutine

	done  chan struct{}
	value T
	err   error
}

// NewFuture wraps work. run decides where the work executes; nil means a
// plain goroutine.
func NewFuture[T any](work func() (T, error), run func(func())) *Future[T] {
	if run == nil {
		run = func(fn func()) { go fn() }
	}
	return &Future[T]{
		work: work,
		run:  run,
		done: make(chan struct{}),
	}
}

// Start triggers the work if nobody has yet. It never blocks.
func (f *Future[T]) Start() {
	f.once.Do(func() {
		f.run(func() {
			f.value, f.err = f.work()
			close(f.done)
		})
	})
}

// Wait starts the work if needed and blocks until it resolves or ctx is done.
// A ctx error does not cancel the work.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	f.Start()
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result is a resolved Future's outcome.
type Result[T any] struct {
	Value T
	Err   error
}

// Poll reports the result if the work has finished, without starting it.
func (f *Future[T]) Poll() (Result[T], bool) {
	select {
	case <-f.done:
		return Result[T]{Value: f.value, Err: f.err}, true
	default:
		return Result[T]{}, false
	}
}

// Done returns a channel closed once the work has resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }
