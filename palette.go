package equart

import (
	"image/color"

	"github.com/gogpu/equart/fixel"
)

// Palette maps cell classifications to pixel colours.
type Palette struct {
	Root        color.RGBA
	NoData      color.RGBA
	Positive    color.RGBA
	Negative    color.RGBA
	OutOfDomain color.RGBA
}

// DefaultPalette draws roots black on a white background, tints positive
// and negative regions and marks domain errors red.
var DefaultPalette = Palette{
	Root:        color.RGBA{R: 0, G: 0, B: 0, A: 255},
	NoData:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Positive:    color.RGBA{R: 255, G: 255, B: 200, A: 255},
	Negative:    color.RGBA{R: 200, G: 255, B: 255, A: 255},
	OutOfDomain: color.RGBA{R: 255, G: 0, B: 0, A: 255},
}

// Color returns the colour of cell c. Cells without a root are coloured by
// their mood.
func (p Palette) Color(c *fixel.Cell) color.RGBA {
	switch c.Classify() {
	case fixel.Root:
		return p.Root
	case fixel.OutOfDomain:
		return p.OutOfDomain
	}
	switch c.Mood() {
	case fixel.MoodPositive:
		return p.Positive
	case fixel.MoodNegative:
		return p.Negative
	default:
		return p.NoData
	}
}
