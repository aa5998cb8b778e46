// Package compositor turns a sequence of partial frames into full-canvas
// animation frames.
//
// One Compositor holds the running canvas state of one animated image and
// must be fed frames in strictly increasing index order, starting at 0.
//
// Base selection for frame i > 0:
//
//	previous frame disposal == Combine  → base = previous frame's output
//	anything else (Replace, Unsupported) → base = the first frame
//
// Non-combine disposal therefore resets to the first frame, not to a blank canvas.
package compositor

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/e7canasta/peppermint/framedecoder"
)

var (
	// ErrOutOfOrder is returned when Compose is not called with the next index.
	ErrOutOfOrder = errors.New("compositor: frames must be composed in index order")
	// ErrBufferSize is returned when a raw buffer's length does not match its size.
	ErrBufferSize = errors.New("compositor: raw buffer length mismatch")
)

// CompositedFrame is one full-canvas animation frame.
//
// IMMUTABILITY CONTRACT: Pix is shared with the compositor (it becomes the
// next frame's base) and with every reader. Nobody may modify it.
type CompositedFrame struct {
	Delay  time.Duration
	Width  int
	Height int
	// Pix holds Width*Height*4 bytes, B,G,R,A order
	Pix []byte
}

// Compositor keeps the running canvas of one animated image.
type Compositor struct {
	width   int
	height  int
	workers int

	next int // index expected by the next Compose call

	full     []byte
	fullInfo Metadata
	prev     []byte
	prevInfo Metadata
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithWorkers bounds the number of goroutines merging rows of one frame.
// Values below 1 mean sequential merging.
func WithWorkers(n int) Option {
	return func(c *Compositor) { c.workers = n }
}

// New creates a compositor for a width x height canvas.
func New(width, height int, opts ...Option) *Compositor {
	c := &Compositor{
		width:   width,
		height:  height,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Width returns the canvas width.
func (c *Compositor) Width() int { return c.width }

// Height returns the canvas height.
func (c *Compositor) Height() int { return c.height }

// Next returns the index the next Compose call must use.
func (c *Compositor) Next() int { return c.next }

// Compose merges frame index onto its base and returns the composited frame.
//
// Frame 0 initialises the canvas from raw. A raw buffer of canvas size is
// taken as-is; a smaller one is placed at meta's rect on a transparent canvas.
func (c *Compositor) Compose(index int, meta Metadata, raw framedecoder.RawFrame) (CompositedFrame, error) {
	if index != c.next {
		return CompositedFrame{}, fmt.Errorf("%w: got %d, want %d", ErrOutOfOrder, index, c.next)
	}
	if len(raw.Pix) != raw.Width*raw.Height*framedecoder.BytesPerPixel {
		return CompositedFrame{}, fmt.Errorf("%w: frame %d is %dx%d with %d bytes",
			ErrBufferSize, index, raw.Width, raw.Height, len(raw.Pix))
	}

	var pix []byte
	if index == 0 {
		pix = c.initCanvas(meta, raw)
		c.full = pix
		c.fullInfo = meta
		c.fullInfo.Width, c.fullInfo.Height, c.fullInfo.Left, c.fullInfo.Top = c.width, c.height, 0, 0
	} else {
		base := c.full
		if c.prevInfo.Disposal == Combine {
			base = c.prev
		}
		pix = merge(base, c.width, raw, meta, c.workers)
	}

	c.prev = pix
	c.prevInfo = meta
	if index == 0 {
		c.prevInfo = c.fullInfo
	}
	c.next++

	return CompositedFrame{
		Delay:  meta.Delay,
		Width:  c.width,
		Height: c.height,
		Pix:    pix,
	}, nil
}

func (c *Compositor) initCanvas(meta Metadata, raw framedecoder.RawFrame) []byte {
	if raw.Width == c.width && raw.Height == c.height {
		return raw.Pix
	}
	blank := make([]byte, c.width*c.height*framedecoder.BytesPerPixel)
	placed := meta
	placed.Width, placed.Height = min(meta.Width, raw.Width), min(meta.Height, raw.Height)
	return place(blank, c.width, raw, placed)
}

// place copies every pixel of raw (all channels, any alpha) into canvas at rect.
func place(canvas []byte, canvasWidth int, raw framedecoder.RawFrame, rect Metadata) []byte {
	rowBytes := rect.Width * framedecoder.BytesPerPixel
	for h := 0; h < rect.Height; h++ {
		src := h * raw.Width * framedecoder.BytesPerPixel
		dst := ((h+rect.Top)*canvasWidth + rect.Left) * framedecoder.BytesPerPixel
		copy(canvas[dst:dst+rowBytes], raw.Pix[src:src+rowBytes])
	}
	return canvas
}
