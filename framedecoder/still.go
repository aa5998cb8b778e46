package framedecoder

import (
	"image"
	_ "image/jpeg" // register decoders with image.Decode
	_ "image/png"
	"io"

	_ "golang.org/x/image/tiff"
)

// stillDecoder serves single-frame containers. It carries no per-frame
// metadata, so every field falls back to the compositor defaults.
type stillDecoder struct {
	img image.Image
}

// OpenStill decodes any format registered with the image package
// (JPEG, PNG and TIFF are linked in).
func OpenStill(r io.Reader) (Decoder, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &stillDecoder{img: img}, nil
}

func (d *stillDecoder) Info() Info {
	b := d.img.Bounds()
	return Info{Width: b.Dx(), Height: b.Dy(), FrameCount: 1}
}

func (d *stillDecoder) Metadata(index int) (RawMetadata, error) {
	if err := checkIndex(index, 1); err != nil {
		return RawMetadata{}, err
	}
	return RawMetadata{}, nil
}

func (d *stillDecoder) Frame(index int) (RawFrame, error) {
	if err := checkIndex(index, 1); err != nil {
		return RawFrame{}, err
	}
	return toBGRA(d.img, d.img.Bounds()), nil
}

func (d *stillDecoder) FullImage() (RawFrame, error) {
	return toBGRA(d.img, d.img.Bounds()), nil
}
