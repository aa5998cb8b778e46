package animated

import (
	"context"
	"sync"

	"github.com/e7canasta/peppermint/compositor"
	"github.com/e7canasta/peppermint/framedecoder"
)

// Stream is the lazy frame sequence of one image. Safe for concurrent use;
// composition itself runs under the stream's lock.
type Stream struct {
	name string
	opts options
	info framedecoder.Info

	mu     sync.Mutex
	dec    framedecoder.Decoder
	comp   *compositor.Compositor
	frames []Frame
	err    error // sticky: once a frame fails, later indices fail too
}

// NewStream wraps dec without decoding any frame yet.
func NewStream(name string, dec framedecoder.Decoder, opts ...Option) *Stream {
	return newStream(name, dec, buildOptions(opts))
}

func newStream(name string, dec framedecoder.Decoder, o options) *Stream {
	info := dec.Info()
	return &Stream{
		name: name,
		opts: o,
		info: info,
		dec:  dec,
		comp: compositor.New(info.Width, info.Height, o.compositorOptions()...),
	}
}

// Len returns the number of frames.
func (s *Stream) Len() int { return s.info.FrameCount }

// Width returns the canvas width.
func (s *Stream) Width() int { return s.info.Width }

// Height returns the canvas height.
func (s *Stream) Height() int { return s.info.Height }

// TraceID returns the stream's trace id.
func (s *Stream) TraceID() string { return s.opts.traceID }

// Frame returns frame index, composing any frames before it that have not
// been composed yet. Repeat access returns the cached frame.
func (s *Stream) Frame(ctx context.Context, index int) (Frame, error) {
	if index < 0 || index >= s.info.FrameCount {
		return Frame{}, frameError(s.name, index, framedecoder.ErrFrameIndex)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.frames) <= index {
		if s.err != nil {
			return Frame{}, s.err
		}
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		f, err := s.composeNext()
		if err != nil {
			s.err = frameError(s.name, len(s.frames), err)
			return Frame{}, s.err
		}
		s.frames = append(s.frames, f)
	}
	return s.frames[index], nil
}

// composeNext builds frame len(s.frames). Callers hold s.mu.
func (s *Stream) composeNext() (Frame, error) {
	index := len(s.frames)

	if index == 0 {
		full, err := s.dec.FullImage()
		if err != nil {
			return Frame{}, err
		}
		meta := resolvedMetadata(s.dec, 0, s.opts.delay, full.Width, full.Height)

		if s.info.FrameCount == 1 {
			// Still image: the full image is the only frame.
			return Frame{Delay: meta.Delay, Width: full.Width, Height: full.Height, Pix: full.Pix}, nil
		}
		return s.comp.Compose(0, meta, full)
	}

	raw, err := s.dec.Frame(index)
	if err != nil {
		return Frame{}, err
	}
	meta := resolvedMetadata(s.dec, index, s.opts.delay, raw.Width, raw.Height)
	return s.comp.Compose(index, meta, raw)
}

// Materialize composes the remaining frames and returns them as an Image.
func (s *Stream) Materialize(ctx context.Context) (*Image, error) {
	if s.info.FrameCount > 0 {
		if _, err := s.Frame(ctx, s.info.FrameCount-1); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	frames := make([]Frame, len(s.frames))
	copy(frames, s.frames)
	return &Image{
		Name:    s.name,
		TraceID: s.opts.traceID,
		Width:   s.info.Width,
		Height:  s.info.Height,
		Frames:  frames,
	}, nil
}
