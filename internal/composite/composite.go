// Package composite assembles worker bands into one display frame and
// draws the statistics overlay on top of it.
package composite

import (
	"image"
	"image/color"
	"iter"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/internal/framebuf"
)

// Compose returns a width x height frame with every snapshot copied at its
// band offset. Areas no snapshot covers (the band of a lost worker, or the
// remainder rows when the height does not divide evenly) keep bg.
func Compose(width, height int, bg color.RGBA, snaps iter.Seq[equart.Snapshot]) *image.RGBA {
	dst := framebuf.New(width, height, bg)
	Into(dst, snaps)
	return dst
}

// Into copies every snapshot into dst at its band offset. Pixels outside
// dst are clipped.
func Into(dst *image.RGBA, snaps iter.Seq[equart.Snapshot]) {
	height := dst.Bounds().Dy()
	for s := range snaps {
		if s.Image == nil {
			continue
		}
		y := int(math.Round(s.Span * float64(height)))
		xdraw.Copy(dst, image.Pt(0, y), s.Image, s.Image.Bounds(), xdraw.Src, nil)
	}
}

// Scale returns src resized to width x height with nearest-neighbour
// sampling, which keeps single-pixel root lines crisp. A src already at
// that size is returned as is.
func Scale(src *image.RGBA, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return framebuf.New(0, 0, framebuf.Background)
	}
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
