// Package animated drives a frame decoder and a compositor to build the
// full-canvas frame sequence of one image file.
//
// Create materializes every frame up front. NewStream composes lazily: the
// first access to index i composes every frame up to i (composition is
// sequential because of the running canvas) and caches the results.
// Single-frame images skip composition and yield the decoder's full image.
package animated

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/e7canasta/peppermint/compositor"
	"github.com/e7canasta/peppermint/framedecoder"
)

// Frame is one composited frame: its delay and a full-canvas BGRA buffer.
type Frame = compositor.CompositedFrame

// Image is a fully materialized animated (or still) image.
//
// Immutable after Create; Frames[i].Pix must not be modified.
type Image struct {
	// Name is the file name the image was decoded from
	Name string
	// TraceID identifies the decode in logs
	TraceID string

	Width  int
	Height int
	Frames []Frame
}

// FrameCount returns the number of frames (1 for still images).
func (img *Image) FrameCount() int { return len(img.Frames) }

// IsAnimated reports whether the image has more than one frame.
func (img *Image) IsAnimated() bool { return len(img.Frames) > 1 }

// Duration returns the sum of all frame delays (one loop).
func (img *Image) Duration() time.Duration {
	var d time.Duration
	for _, f := range img.Frames {
		d += f.Delay
	}
	return d
}

// ByteSize returns the pixel memory held by the image.
func (img *Image) ByteSize() int {
	n := 0
	for _, f := range img.Frames {
		n += len(f.Pix)
	}
	return n
}

type options struct {
	delay        compositor.DelayPolicy
	mergeWorkers int
	traceID      string
}

// Option configures Create, Decode and NewStream.
type Option func(*options)

// WithDelayPolicy overrides compositor.DefaultDelayPolicy.
func WithDelayPolicy(p compositor.DelayPolicy) Option {
	return func(o *options) { o.delay = p }
}

// WithMergeWorkers bounds the row parallelism of each frame merge.
func WithMergeWorkers(n int) Option {
	return func(o *options) { o.mergeWorkers = n }
}

// WithTraceID sets the trace id instead of generating one.
func WithTraceID(id string) Option {
	return func(o *options) { o.traceID = id }
}

func buildOptions(opts []Option) options {
	o := options{delay: compositor.DefaultDelayPolicy}
	for _, opt := range opts {
		opt(&o)
	}
	if o.traceID == "" {
		o.traceID = uuid.New().String()
	}
	return o
}

func (o options) compositorOptions() []compositor.Option {
	if o.mergeWorkers == 0 {
		return nil
	}
	return []compositor.Option{compositor.WithWorkers(o.mergeWorkers)}
}

// Decode opens name in fsys with the registry's adapter and materializes it.
func Decode(ctx context.Context, reg *framedecoder.Registry, fsys fs.FS, name string, opts ...Option) (*Image, error) {
	dec, err := reg.OpenFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return Create(ctx, name, dec, opts...)
}

// Create composes every frame of dec in index order.
//
// ctx is checked between frames; a cancelled ctx stops composition and
// returns ctx.Err().
func Create(ctx context.Context, name string, dec framedecoder.Decoder, opts ...Option) (*Image, error) {
	o := buildOptions(opts)
	start := time.Now()

	s := newStream(name, dec, o)
	frames := make([]Frame, 0, s.info.FrameCount)
	for i := 0; i < s.info.FrameCount; i++ {
		f, err := s.Frame(ctx, i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	img := &Image{
		Name:    name,
		TraceID: o.traceID,
		Width:   s.info.Width,
		Height:  s.info.Height,
		Frames:  frames,
	}

	slog.Debug("animated image created",
		"name", name,
		"trace_id", o.traceID,
		"frames", len(frames),
		"width", img.Width,
		"height", img.Height,
		"elapsed", time.Since(start),
	)

	return img, nil
}

// resolvedMetadata reads and defaults the metadata of frame index.
// A decoder error while reading metadata is not a decode failure: every
// field falls back to its default.
func resolvedMetadata(dec framedecoder.Decoder, index int, policy compositor.DelayPolicy, frameWidth, frameHeight int) compositor.Metadata {
	info := dec.Info()
	raw, err := dec.Metadata(index)
	if err != nil {
		slog.Debug("frame metadata unavailable, using defaults", "index", index, "error", err)
		raw = framedecoder.RawMetadata{}
	}
	return compositor.ResolveMetadata(raw, policy, frameWidth, frameHeight, info.Width, info.Height)
}

func frameError(name string, index int, err error) error {
	return fmt.Errorf("frame %d of %s: %w", index, name, err)
}
