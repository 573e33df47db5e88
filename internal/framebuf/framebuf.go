// Package framebuf provides the RGBA frame buffers exchanged between render
// workers and the display side.
package framebuf

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Background is the colour of pixels that have not been drawn yet.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// New returns a width x height buffer filled with bg.
// Non-positive dimensions produce an empty buffer.
func New(width, height int, bg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	Fill(img, bg)
	return img
}

// Fill paints the whole buffer with c.
func Fill(img *image.RGBA, c color.RGBA) {
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

// Resize returns a new width x height buffer that keeps every pixel of src
// at its old coordinates where the two overlap and fills the rest with bg.
// The pixels are not scaled.
func Resize(src *image.RGBA, width, height int, bg color.RGBA) *image.RGBA {
	dst := New(width, height, bg)
	if src == nil {
		return dst
	}
	overlap := src.Bounds().Intersect(dst.Bounds())
	if overlap.Empty() {
		return dst
	}
	xdraw.Copy(dst, overlap.Min, src, overlap, xdraw.Src, nil)
	return dst
}

// Clone returns a deep copy of src.
func Clone(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}

// SetRow writes scanline y of img from px, which is called once per
// column in order.
func SetRow(img *image.RGBA, y int, px func(x int) color.RGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	off := img.PixOffset(b.Min.X, y)
	row := img.Pix[off : off+b.Dx()*4 : off+b.Dx()*4]
	for x := range b.Dx() {
		c := px(b.Min.X + x)
		i := x * 4
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
	}
}
