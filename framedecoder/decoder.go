// Package framedecoder is the boundary to encoded image containers.
//
// A Decoder reports the canvas size and frame count of a stream and, per
// frame index, a metadata record plus the raw pixels of the frame's region.
// Pixels are always 4 bytes per pixel in B,G,R,A order with straight alpha.
//
// Metadata fields are optional: a nil field means the container did not carry
// it, and the compositor substitutes its documented default.
package framedecoder

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// Info describes the canvas of an encoded stream.
type Info struct {
	Width      int
	Height     int
	FrameCount int
}

// RawMetadata is the per-frame metadata as read from the container.
type RawMetadata struct {
	// Delay in centiseconds (GIF graphic control extension units)
	Delay *uint16
	// Disposal is the container's raw disposal code
	Disposal *uint8

	Width  *int
	Height *int
	Left   *int
	Top    *int
}

// RawFrame is a frame's pixel buffer, scoped to the frame's region.
type RawFrame struct {
	Width  int
	Height int
	// Pix holds Width*Height*4 bytes, B,G,R,A order
	Pix []byte
}

// Decoder yields frames of one encoded stream. Implementations are not safe
// for concurrent use; each animated image owns its decoder.
type Decoder interface {
	Info() Info

	// Metadata returns the raw metadata of frame index.
	Metadata(index int) (RawMetadata, error)

	// Frame returns the raw region pixels of frame index.
	Frame(index int) (RawFrame, error)

	// FullImage returns the first frame rendered onto a full canvas, the
	// way a plain still-image decode of the stream would present it.
	FullImage() (RawFrame, error)
}

// OpenFunc decodes a stream into a Decoder.
type OpenFunc func(r io.Reader) (Decoder, error)

// Registry maps lower-case file extensions to decoders.
type Registry struct {
	openers map[string]OpenFunc
}

// NewRegistry returns a registry with the GIF and still-image adapters for
// .gif, .jpg, .jpeg, .png, .tif and .tiff.
func NewRegistry() *Registry {
	r := &Registry{openers: make(map[string]OpenFunc)}
	r.Register(".gif", OpenGIF)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".tif", ".tiff"} {
		r.Register(ext, OpenStill)
	}
	return r
}

// Register binds ext (with leading dot) to fn, replacing any previous binding.
func (r *Registry) Register(ext string, fn OpenFunc) {
	r.openers[strings.ToLower(ext)] = fn
}

// Supports reports whether an adapter is registered for name's extension.
func (r *Registry) Supports(name string) bool {
	_, ok := r.openers[strings.ToLower(path.Ext(name))]
	return ok
}

// Open decodes the stream r, picking the adapter from name's extension.
func (r *Registry) Open(name string, src io.Reader) (Decoder, error) {
	ext := strings.ToLower(path.Ext(name))
	fn, ok := r.openers[ext]
	if !ok {
		return nil, wrapDecodeError(name, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
	}

	dec, err := fn(src)
	if err != nil {
		return nil, wrapDecodeError(name, err)
	}

	info := dec.Info()
	if info.FrameCount <= 0 || info.Width <= 0 || info.Height <= 0 {
		return nil, wrapDecodeError(name, ErrEmptyImage)
	}
	return dec, nil
}

// OpenFile opens name inside fsys and decodes it.
func (r *Registry) OpenFile(fsys fs.FS, name string) (Decoder, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, wrapDecodeError(name, err)
	}
	defer f.Close()

	return r.Open(name, f)
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameIndex, index, count)
	}
	return nil
}
