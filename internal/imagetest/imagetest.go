// Package imagetest builds small encoded fixtures for tests.
package imagetest

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
)

// Palette indices used by fixtures.
const (
	Transparent uint8 = iota
	Red
	Green
	Blue
	White
)

// Palette is the shared fixture palette. Index 0 is fully transparent.
var Palette = color.Palette{
	color.RGBA{},
	color.RGBA{R: 0xff, A: 0xff},
	color.RGBA{G: 0xff, A: 0xff},
	color.RGBA{B: 0xff, A: 0xff},
	color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// Frame describes one GIF frame: its region on the canvas, a palette index
// per pixel (row-major, len = Dx*Dy) and its control extension values.
type Frame struct {
	Bounds   image.Rectangle
	Pix      []uint8
	Delay    int
	Disposal byte
}

// Solid returns a frame covering bounds with a single palette index.
func Solid(bounds image.Rectangle, index uint8, delay int, disposal byte) Frame {
	pix := make([]uint8, bounds.Dx()*bounds.Dy())
	for i := range pix {
		pix[i] = index
	}
	return Frame{Bounds: bounds, Pix: pix, Delay: delay, Disposal: disposal}
}

// GIF encodes frames on a width x height canvas.
func GIF(t testing.TB, width, height int, frames ...Frame) []byte {
	t.Helper()

	g := &gif.GIF{
		Config: image.Config{Width: width, Height: height, ColorModel: Palette},
	}
	for _, f := range frames {
		pm := image.NewPaletted(f.Bounds, Palette)
		copy(pm.Pix, f.Pix)
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, f.Delay)
		g.Disposal = append(g.Disposal, f.Disposal)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

// PNG encodes a width x height opaque image filled with c.
func PNG(t testing.TB, width, height int, c color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// BGRA returns the 4 bytes of a straight-alpha pixel in B,G,R,A order.
func BGRA(c color.RGBA) [4]byte {
	return [4]byte{c.B, c.G, c.R, c.A}
}
