package internal

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/e7canasta/peppermint/animated"
	"github.com/e7canasta/peppermint/framedecoder"
)

// Session owns the navigator state and the prefetch cache of one gallery.
//
// Concurrency model:
//   - mu serialises open and navigation; the cache is only touched under mu
//   - decodes run on the pool, outside mu, and never take it
//   - decode counters are atomics (read by Stats without coordination)
type Session struct {
	cfg     Config
	allowed map[string]struct{}
	pool    *decodePool

	loading atomic.Bool

	mu     sync.Mutex
	closed bool
	nav    navigator
	fsys   fs.FS
	cache  *prefetchCache

	completed atomic.Uint64
	failed    atomic.Uint64
}

// NewSession applies defaults to cfg and returns an empty session.
func NewSession(cfg Config) *Session {
	if cfg.WindowSize < 1 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.DecodeWorkers < 1 {
		cfg.DecodeWorkers = runtime.NumCPU()
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultExtensions
	}
	if cfg.OpenFS == nil {
		cfg.OpenFS = openDir
	}
	if cfg.Decode == nil {
		reg := framedecoder.NewRegistry()
		cfg.Decode = func(ctx context.Context, fsys fs.FS, name, traceID string) (*animated.Image, error) {
			return animated.Decode(ctx, reg, fsys, name, animated.WithTraceID(traceID))
		}
	}

	allowed := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		allowed[ext] = struct{}{}
	}

	s := &Session{
		cfg:     cfg,
		allowed: allowed,
		pool:    newDecodePool(cfg.DecodeWorkers),
	}
	s.cache = newPrefetchCache(s.decodeFuture)
	return s
}

// openDir opens folder on the local disk, failing early when it is not a
// directory.
func openDir(folder string) (fs.FS, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("not a directory")
	}
	return os.DirFS(folder), nil
}

// decodeFuture builds the memoized decode of e in the currently opened
// folder. Called by the cache under mu.
func (s *Session) decodeFuture(e Entry) *Future[*animated.Image] {
	fsys := s.fsys
	folder := s.nav.folder
	traceID := uuid.NewString()

	work := func() (*animated.Image, error) {
		start := time.Now()
		// Decodes outlive navigation; no caller context applies.
		img, err := s.cfg.Decode(context.Background(), fsys, e.Name, traceID)
		if err != nil {
			s.failed.Add(1)
			slog.Warn("gallery: decode failed",
				"folder", folder,
				"entry", e.Name,
				"trace_id", traceID,
				"error", err,
			)
			return nil, err
		}
		s.completed.Add(1)
		slog.Debug("gallery: decode completed",
			"entry", e.Name,
			"trace_id", traceID,
			"frames", img.FrameCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return img, nil
	}
	return NewFuture(work, s.pool.Submit)
}

// Open lists folder and positions the session on preferred (or the first
// entry when preferred is empty or absent).
//
// Two phases: the window is first narrowed to the current entry alone and
// Open blocks until that decode resolves, then the window widens to
// WindowSize and the read-ahead decodes start in the background.
//
// A decode failure of the current entry is not an Open failure; it is
// reported by the returned handle. A ctx error while waiting leaves the
// folder opened with the narrow window and returns ctx.Err().
func (s *Session) Open(ctx context.Context, folder, preferred string) (*Handle, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	fsys, err := s.cfg.OpenFS(folder)
	if err != nil {
		return nil, &FolderError{Folder: folder, Err: err}
	}
	entries, err := listEntries(fsys, s.allowed)
	if err != nil {
		return nil, &FolderError{Folder: folder, Err: err}
	}

	s.cache.reset()
	s.fsys = fsys
	s.nav.reset(folder, entries, preferred)

	slog.Info("gallery: folder opened",
		"folder", folder,
		"entries", len(entries),
		"current", s.nav.current,
	)

	if s.nav.empty() {
		return nil, ErrNothingToShow
	}

	// Phase 1: current entry only.
	s.cache.recompute(s.nav.entries, s.nav.current, 1)
	h := s.handle()
	if _, err := h.Wait(ctx); err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Phase 2: full read-ahead.
	s.recompute()
	return h, nil
}

// Next moves to the following entry. At the last entry it returns
// ErrNothingToShow and the position is unchanged.
func (s *Session) Next() (*Handle, error) { return s.move((*navigator).next) }

// Prev moves to the preceding entry. At the first entry it returns
// ErrNothingToShow and the position is unchanged.
func (s *Session) Prev() (*Handle, error) { return s.move((*navigator).prev) }

// First jumps to the first entry.
func (s *Session) First() (*Handle, error) { return s.move((*navigator).first) }

// Last jumps to the last entry.
func (s *Session) Last() (*Handle, error) { return s.move((*navigator).last) }

// Current returns the handle of the current entry without moving. The
// window is recomputed, so an entry evicted by a failed read is decoded again.
func (s *Session) Current() (*Handle, error) {
	return s.move(func(n *navigator) bool { return !n.empty() })
}

func (s *Session) move(step func(*navigator) bool) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if !step(&s.nav) {
		return nil, ErrNothingToShow
	}
	s.recompute()
	return s.handle(), nil
}

// recompute anchors the window at the current entry. Caller holds mu.
func (s *Session) recompute() {
	res := s.cache.recompute(s.nav.entries, s.nav.current, s.cfg.WindowSize)
	if res.started > 0 || res.evicted > 0 {
		slog.Debug("gallery: window recomputed",
			"current", s.nav.current,
			"started", res.started,
			"evicted", res.evicted,
			"cached", s.cache.size(),
		)
	}
}

// handle returns the handle of the current entry. Caller holds mu and has
// just recomputed, so the entry is cached.
func (s *Session) handle() *Handle {
	e, _ := s.nav.entry()
	ce, _ := s.cache.get(e)
	return &Handle{
		Entry:  e,
		Index:  s.nav.current,
		Count:  len(s.nav.entries),
		future: ce.future,
	}
}

// Position reports where the session is. ErrNothingToShow when no folder
// is opened or it is empty.
func (s *Session) Position() (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Position{}, ErrClosed
	}
	e, ok := s.nav.entry()
	if !ok {
		return Position{Folder: s.nav.folder}, ErrNothingToShow
	}
	return Position{
		Folder: s.nav.folder,
		Name:   e.Name,
		Index:  s.nav.current + 1,
		Count:  len(s.nav.entries),
	}, nil
}

// Loading reports whether an Open is in progress.
func (s *Session) Loading() bool { return s.loading.Load() }

// Stats returns a snapshot of the session counters and cache contents.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Entries:          len(s.nav.entries),
		Current:          s.nav.current,
		Cached:           s.cache.names(),
		DecodesStarted:   s.cache.started,
		DecodesCompleted: s.completed.Load(),
		DecodesFailed:    s.failed.Load(),
		DecodesRunning:   s.pool.Running(),
		WindowHits:       s.cache.hits,
		Evictions:        s.cache.evictions,
	}
}

// Close drops the cache and waits for in-flight decodes. Later calls to
// any operation return ErrClosed. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cache.reset()
	s.mu.Unlock()

	s.pool.Stop()
	slog.Info("gallery: session closed",
		"decodes_completed", s.completed.Load(),
		"decodes_failed", s.failed.Load(),
	)
	return nil
}
