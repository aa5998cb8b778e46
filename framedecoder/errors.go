package framedecoder

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// ErrorCategory classifies decode failures for logs and host error indicators.
type ErrorCategory int

const (
	// ErrCategoryCorrupt indicates a truncated or malformed stream
	ErrCategoryCorrupt ErrorCategory = iota
	// ErrCategoryUnsupported indicates a container or pixel layout no adapter handles
	ErrCategoryUnsupported
	// ErrCategoryIO indicates the file could not be read
	ErrCategoryIO
	// ErrCategoryUnknown indicates unclassified errors
	ErrCategoryUnknown
)

// String returns a human-readable string representation of the error category
func (e ErrorCategory) String() string {
	switch e {
	case ErrCategoryCorrupt:
		return "corrupt"
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupportedFormat is returned when no adapter is registered for a file extension.
	ErrUnsupportedFormat = errors.New("framedecoder: unsupported format")
	// ErrFrameIndex is returned when a frame index is outside [0, FrameCount).
	ErrFrameIndex = errors.New("framedecoder: frame index out of range")
	// ErrEmptyImage is returned for streams that decode to zero frames or a zero-sized canvas.
	ErrEmptyImage = errors.New("framedecoder: image has no frames")
)

// DecodeError is the stream-level failure surfaced by Open and by adapters.
type DecodeError struct {
	Path     string
	Category ErrorCategory
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%s): %v", e.Path, e.Category, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// wrapDecodeError attaches a path and a category to err. A nil err stays nil.
func wrapDecodeError(path string, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Path: path, Category: Classify(err), Err: err}
}

// Classify analyzes a decode error and categorizes it.
//
// Sentinel and typed errors are checked first; the image packages report most
// problems as plain strings ("gif: ...", "tiff: ..."), so the rest is keyword matching.
func Classify(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryUnknown
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return de.Category
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCategoryUnsupported
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, ErrEmptyImage):
		return ErrCategoryCorrupt
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ErrCategoryIO
	}

	msg := strings.ToLower(err.Error())

	if containsUnsupportedKeywords(msg) {
		return ErrCategoryUnsupported
	}
	if containsCorruptKeywords(msg) {
		return ErrCategoryCorrupt
	}
	if containsIOKeywords(msg) {
		return ErrCategoryIO
	}

	return ErrCategoryUnknown
}

func containsUnsupportedKeywords(msg string) bool {
	return containsAny(msg,
		"unknown format",
		"unsupported",
		"can't recognize format",
		"not implemented",
	)
}

func containsCorruptKeywords(msg string) bool {
	return containsAny(msg,
		"invalid",
		"corrupt",
		"missing",
		"too much image data",
		"not enough image data",
		"unexpected eof",
		"bad",
		"no color table",
		"checksum",
	)
}

func containsIOKeywords(msg string) bool {
	return containsAny(msg,
		"permission denied",
		"no such file",
		"i/o",
		"read",
	)
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
