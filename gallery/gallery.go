package gallery

import (
	"context"
	"errors"
	"io/fs"

	"github.com/e7canasta/peppermint/animated"
	"github.com/e7canasta/peppermint/compositor"
	"github.com/e7canasta/peppermint/framedecoder"
	"github.com/e7canasta/peppermint/gallery/internal"
)

// Handle is re-exported from internal package.
// See internal/handle.go for full documentation.
type Handle = internal.Handle

// Entry is re-exported from internal package.
type Entry = internal.Entry

// Position is re-exported from internal package.
type Position = internal.Position

// Stats is re-exported from internal package.
// See internal/types.go for full documentation.
type Stats = internal.Stats

// Result is the outcome of a resolved Handle.
type Result = internal.Result[*animated.Image]

// FolderError is re-exported from internal package.
type FolderError = internal.FolderError

// Errors returned by Session operations.
var (
	// ErrNothingToShow is returned at a navigation boundary or for an empty folder.
	ErrNothingToShow = internal.ErrNothingToShow
	// ErrNothingToResume is returned by Resume when no bookmark can be reopened.
	ErrNothingToResume = internal.ErrNothingToResume
	// ErrClosed is returned by every operation after Close.
	ErrClosed = internal.ErrClosed
)

// DefaultExtensions is the listing allow-set used when Config.Extensions is empty.
var DefaultExtensions = internal.DefaultExtensions

// Session is a gallery over one folder at a time.
//
// Design:
//   - Navigation returns a Handle immediately; the image behind it may
//     still be decoding
//   - Every successful move recomputes the read-ahead window before it returns
//   - Lifecycle: New() → Open() → Next()/Prev()/First()/Last() → Close()
//   - Thread-safe: operations are serialised by one session lock
type Session interface {
	// Open lists folder and positions on preferred, or the first entry.
	// Blocks until the current entry is decoded (or ctx is done).
	//
	// Returns:
	//   - *FolderError if the folder cannot be listed
	//   - ErrNothingToShow if no file has an allowed extension
	Open(ctx context.Context, folder, preferred string) (*Handle, error)

	// Next, Prev, First and Last move the position. At a boundary, or with
	// no folder opened, they return ErrNothingToShow and do not move.
	Next() (*Handle, error)
	Prev() (*Handle, error)
	First() (*Handle, error)
	Last() (*Handle, error)

	// Current returns the handle of the current entry.
	Current() (*Handle, error)

	// Position reports folder, entry name, 1-based index and count.
	Position() (Position, error)

	// Loading reports whether an Open is in progress.
	Loading() bool

	// Stats returns an operational snapshot.
	Stats() Stats

	// Close waits for in-flight decodes. Idempotent.
	Close() error
}

// DecodeFunc decodes the file name of fsys into an animated image.
type DecodeFunc = internal.DecodeFunc

// Config configures a Session. Zero values select the defaults.
type Config struct {
	// WindowSize is the read-ahead window, current entry included (default 5)
	WindowSize int
	// DecodeWorkers bounds concurrent decodes (default runtime.NumCPU)
	DecodeWorkers int
	// Extensions is the listing allow-set, matched exactly
	Extensions []string

	// MergeWorkers bounds row parallelism while compositing one frame
	MergeWorkers int
	// DelayPolicy converts raw frame delays (zero value: compositor.DefaultDelayPolicy)
	DelayPolicy compositor.DelayPolicy

	// Registry maps extensions to decoders (default framedecoder.NewRegistry)
	Registry *framedecoder.Registry
	// OpenFS roots a folder (default: the local disk)
	OpenFS func(folder string) (fs.FS, error)
	// Decode replaces the registry-based decode entirely
	Decode DecodeFunc
}

// New creates a Session with cfg.
func New(cfg Config) Session {
	decode := cfg.Decode
	if decode == nil {
		decode = registryDecode(cfg)
	}
	return internal.NewSession(internal.Config{
		WindowSize:    cfg.WindowSize,
		DecodeWorkers: cfg.DecodeWorkers,
		Extensions:    cfg.Extensions,
		Decode:        decode,
		OpenFS:        cfg.OpenFS,
	})
}

func registryDecode(cfg Config) DecodeFunc {
	reg := cfg.Registry
	if reg == nil {
		reg = framedecoder.NewRegistry()
	}
	policy := cfg.DelayPolicy
	if policy == (compositor.DelayPolicy{}) {
		policy = compositor.DefaultDelayPolicy
	}

	opts := []animated.Option{animated.WithDelayPolicy(policy)}
	if cfg.MergeWorkers > 0 {
		opts = append(opts, animated.WithMergeWorkers(cfg.MergeWorkers))
	}

	return func(ctx context.Context, fsys fs.FS, name, traceID string) (*animated.Image, error) {
		o := append([]animated.Option{animated.WithTraceID(traceID)}, opts...)
		return animated.Decode(ctx, reg, fsys, name, o...)
	}
}

// Bookmark is the persisted resume point of a host.
type Bookmark interface {
	// Last returns the last opened folder and the last viewed file in it.
	// ok is false when nothing was recorded.
	Last() (folder, file string, ok bool)
}

// Resume reopens the bookmarked folder at the bookmarked file.
//
// A missing bookmark or a folder that can no longer be listed yields
// ErrNothingToResume. A bookmarked file that no longer exists falls back
// to the first entry.
func Resume(ctx context.Context, s Session, b Bookmark) (*Handle, error) {
	folder, file, ok := b.Last()
	if !ok || folder == "" {
		return nil, ErrNothingToResume
	}

	h, err := s.Open(ctx, folder, file)
	var folderErr *FolderError
	if errors.As(err, &folderErr) {
		return nil, errors.Join(ErrNothingToResume, err)
	}
	return h, err
}
