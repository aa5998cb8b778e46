package framedecoder

import (
	"image"
	"image/draw"
)

// BytesPerPixel is the size of one B,G,R,A pixel.
const BytesPerPixel = 4

// toBGRA copies the r region of src into a tightly packed BGRA buffer.
func toBGRA(src image.Image, r image.Rectangle) RawFrame {
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	swapRB(dst.Pix)
	return RawFrame{Width: r.Dx(), Height: r.Dy(), Pix: dst.Pix}
}

// onCanvas renders src at its own bounds onto a transparent width x height canvas.
func onCanvas(src image.Image, width, height int) RawFrame {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Src)
	swapRB(dst.Pix)
	return RawFrame{Width: width, Height: height, Pix: dst.Pix}
}

// swapRB turns RGBA byte order into BGRA in place.
func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += BytesPerPixel {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
