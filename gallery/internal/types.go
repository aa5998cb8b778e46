package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/e7canasta/peppermint/animated"
)

// Internal errors - re-exported by the gallery package
var (
	ErrNothingToShow   = errors.New("gallery: nothing to show")
	ErrNothingToResume = errors.New("gallery: nothing to resume")
	ErrClosed          = errors.New("gallery: session is closed")
)

// FolderError reports a folder that could not be listed.
type FolderError struct {
	Folder string
	Err    error
}

func (e *FolderError) Error() string {
	return fmt.Sprintf("gallery: open folder %s: %v", e.Folder, e.Err)
}

func (e *FolderError) Unwrap() error { return e.Err }

// DecodeFunc decodes and composites the file name of fsys. traceID tags
// the decode's log lines and the resulting image.
type DecodeFunc func(ctx context.Context, fsys fs.FS, name, traceID string) (*animated.Image, error)

// OpenFSFunc returns the file system rooted at folder.
type OpenFSFunc func(folder string) (fs.FS, error)

// Config holds the session settings. Zero fields take the defaults below.
type Config struct {
	// WindowSize is the number of entries kept decoded from current onwards
	WindowSize int
	// DecodeWorkers bounds concurrent decodes
	DecodeWorkers int
	// Extensions is the allow-set for directory listing (exact match)
	Extensions []string

	Decode DecodeFunc
	OpenFS OpenFSFunc
}

// DefaultWindowSize is used when Config.WindowSize is zero. DecodeWorkers
// defaults to runtime.NumCPU.
const DefaultWindowSize = 5

// DefaultExtensions is the listing allow-set.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".tif"}

// Position describes the current entry for info displays.
type Position struct {
	// Folder is the opened folder
	Folder string
	// Name is the current file name
	Name string
	// Index is 1-based
	Index int
	Count int
}

// Stats is a snapshot of session operational state.
type Stats struct {
	// Entries is the number of eligible files in the opened folder
	Entries int
	// Current is the 0-based index of the current entry
	Current int

	// Cached lists the cached file names in natural order
	Cached []string

	// DecodesStarted counts decode handles created and started
	DecodesStarted uint64
	// DecodesCompleted counts decodes that returned an image
	DecodesCompleted uint64
	// DecodesFailed counts decodes that returned an error
	DecodesFailed uint64
	// DecodesRunning is the number of decodes holding a worker slot
	DecodesRunning int64

	// WindowHits counts window entries found already cached on recompute
	WindowHits uint64
	// Evictions counts entries dropped from the cache
	Evictions uint64
}
