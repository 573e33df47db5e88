package equart

import (
	"image/color"

	"github.com/gogpu/equart/field"
	"github.com/gogpu/equart/fixel"
	"github.com/gogpu/equart/internal/grid"
)

// Domain is the full rectangle [X0, X1] x [Y0, Y1] drawn by a Manager.
type Domain struct {
	X0, X1 float64
	Y0, Y1 float64
}

// DefaultDomain is the square [-6, 6] x [-6, 6].
var DefaultDomain = Domain{X0: -6, X1: 6, Y0: -6, Y1: 6}

// Band returns the Y range owned by worker id out of count workers.
//
// The Y extent is cut into count equal, contiguous slices ordered by id.
// Neighbouring bands share their boundary value exactly and the last band
// ends exactly at Y1, so the bands tile the domain with no gap or overlap.
func (d Domain) Band(id, count int) (lo, hi float64) {
	span := (d.Y1 - d.Y0) / float64(count)
	lo = d.Y0 + span*float64(id)
	hi = d.Y0 + span*float64(id+1)
	if id == count-1 {
		hi = d.Y1
	}
	return lo, hi
}

// ReflowStats describes how samples were redistributed by a resize.
type ReflowStats struct {
	// Cells is the number of old cells visited.
	Cells int
	// Samples is the number of samples found in the old grid.
	Samples int
	// Moved is the number of samples transferred into the new grid.
	Moved int
	// Dropped is the number of samples with no in-bounds destination.
	Dropped int
}

// Tile is the drawing state of one worker: everything the worker renders
// from. A Tile is only ever used from its worker's goroutine.
type Tile interface {
	// Size returns the grid size in cells, which is also the size of the
	// worker's frame buffer in pixels.
	Size() (cols, rows int)

	// Refine brings the whole tile to the given refinement depth.
	// Repeating a depth must be harmless.
	Refine(depth int)

	// Pixel returns the colour of cell (x, y).
	Pixel(x, y int) color.RGBA

	// Resize changes the resolution, keeping accumulated work.
	Resize(cols, rows int) ReflowStats
}

// Factory builds the Tile of worker id out of count, sized cols x rows.
type Factory func(id, count, cols, rows int) Tile

// Slice is the production Tile: a grid of fixels over one horizontal band
// of the domain, sampling a scalar field.
type Slice struct {
	id      int
	grid    *grid.Grid
	field   field.Func
	palette Palette
}

var _ Tile = (*Slice)(nil)

// NewSlice returns the Slice of worker id out of count with a cols x rows
// grid. Options select the domain, field and palette.
func NewSlice(id, count, cols, rows int, opts ...Option) *Slice {
	o := applyOptions(opts)
	lo, hi := o.domain.Band(id, count)
	window := grid.Window{
		Start: fixel.Point{X: o.domain.X0, Y: lo},
		End:   fixel.Point{X: o.domain.X1, Y: hi},
	}
	return &Slice{
		id:      id,
		grid:    grid.New(window, cols, rows),
		field:   o.field,
		palette: o.palette,
	}
}

// NewSliceFactory returns a Factory producing Slices configured by opts.
func NewSliceFactory(opts ...Option) Factory {
	return func(id, count, cols, rows int) Tile {
		return NewSlice(id, count, cols, rows, opts...)
	}
}

// Size implements Tile.
func (s *Slice) Size() (cols, rows int) {
	return s.grid.Cols(), s.grid.Rows()
}

// Refine implements Tile.
func (s *Slice) Refine(depth int) {
	s.grid.Refine(s.field, depth)
}

// Pixel implements Tile.
func (s *Slice) Pixel(x, y int) color.RGBA {
	c := s.grid.At(x, y)
	if c == nil {
		return s.palette.NoData
	}
	return s.palette.Color(c)
}

// Resize implements Tile by reflowing the grid.
func (s *Slice) Resize(cols, rows int) ReflowStats {
	return ReflowStats(s.grid.Reflow(cols, rows))
}

// Window returns the domain rectangle covered by the slice.
func (s *Slice) Window() (start, end fixel.Point) {
	w := s.grid.Window()
	return w.Start, w.End
}

// Samples returns the number of samples held by the slice.
func (s *Slice) Samples() int {
	return s.grid.Len()
}
