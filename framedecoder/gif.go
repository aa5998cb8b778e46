package framedecoder

import (
	"image/gif"
	"io"
)

// gifDecoder adapts image/gif. The whole stream is decoded up front; pixel
// conversion to BGRA happens per frame on request.
type gifDecoder struct {
	g *gif.GIF
}

// OpenGIF decodes every frame of a GIF stream.
func OpenGIF(r io.Reader) (Decoder, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	return &gifDecoder{g: g}, nil
}

func (d *gifDecoder) Info() Info {
	return Info{
		Width:      d.g.Config.Width,
		Height:     d.g.Config.Height,
		FrameCount: len(d.g.Image),
	}
}

func (d *gifDecoder) Metadata(index int) (RawMetadata, error) {
	if err := checkIndex(index, len(d.g.Image)); err != nil {
		return RawMetadata{}, err
	}

	var meta RawMetadata
	if index < len(d.g.Delay) {
		delay := uint16(d.g.Delay[index])
		meta.Delay = &delay
	}
	if index < len(d.g.Disposal) {
		disposal := d.g.Disposal[index]
		meta.Disposal = &disposal
	}

	b := d.g.Image[index].Bounds()
	width, height, left, top := b.Dx(), b.Dy(), b.Min.X, b.Min.Y
	meta.Width, meta.Height, meta.Left, meta.Top = &width, &height, &left, &top

	return meta, nil
}

func (d *gifDecoder) Frame(index int) (RawFrame, error) {
	if err := checkIndex(index, len(d.g.Image)); err != nil {
		return RawFrame{}, err
	}
	img := d.g.Image[index]
	return toBGRA(img, img.Bounds()), nil
}

func (d *gifDecoder) FullImage() (RawFrame, error) {
	if len(d.g.Image) == 0 {
		return RawFrame{}, ErrEmptyImage
	}
	return onCanvas(d.g.Image[0], d.g.Config.Width, d.g.Config.Height), nil
}
