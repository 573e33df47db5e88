// Package grid holds the cell grid owned by one render worker.
//
// The grid divides a domain window into cols x rows fixels. Cells are stored
// in a flat slice for cache efficiency, accessed via index calculation:
// index = row * cols + col. Row 0 covers the low end of the window's Y range.
//
// Thread safety: Grid is NOT thread-safe. It is owned by exactly one worker.
package grid

import "github.com/gogpu/equart/fixel"

// Window is a rectangle [Start.X, End.X] x [Start.Y, End.Y] in domain space.
type Window struct {
	Start fixel.Point
	End   fixel.Point
}

// Width returns the X extent of the window.
func (w Window) Width() float64 {
	return w.End.X - w.Start.X
}

// Height returns the Y extent of the window.
func (w Window) Height() float64 {
	return w.End.Y - w.Start.Y
}

// Grid is a 2D array of fixels covering a Window.
type Grid struct {
	// cells is a flat slice of all cells (row-major order).
	cells []fixel.Cell

	cols int
	rows int

	window Window

	// cellW and cellH are the domain size of one cell.
	cellW float64
	cellH float64
}

// New creates a grid of empty cells over window.
// A grid with non-positive dimensions is empty and has a zero cell size.
func New(window Window, cols, rows int) *Grid {
	if cols <= 0 || rows <= 0 {
		return &Grid{window: window}
	}
	return &Grid{
		cells:  make([]fixel.Cell, cols*rows),
		cols:   cols,
		rows:   rows,
		window: window,
		cellW:  window.Width() / float64(cols),
		cellH:  window.Height() / float64(rows),
	}
}

// Cols returns the number of cell columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the number of cell rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Window returns the domain window covered by the grid.
func (g *Grid) Window() Window {
	return g.window
}

// CellSize returns the domain width and height of one cell.
func (g *Grid) CellSize() (w, h float64) {
	return g.cellW, g.cellH
}

// At returns the cell at (col, row), or nil if out of bounds.
func (g *Grid) At(col, row int) *fixel.Cell {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return &g.cells[row*g.cols+col]
}

// CellWindow returns the domain rectangle covered by the cell at (col, row).
func (g *Grid) CellWindow(col, row int) (start, end fixel.Point) {
	start = fixel.Point{
		X: g.window.Start.X + g.cellW*float64(col),
		Y: g.window.Start.Y + g.cellH*float64(row),
	}
	end = fixel.Point{X: start.X + g.cellW, Y: start.Y + g.cellH}
	return start, end
}

// ForEach calls fn for each cell in row-major order.
func (g *Grid) ForEach(fn func(col, row int, c *fixel.Cell)) {
	for row := range g.rows {
		for col := range g.cols {
			fn(col, row, &g.cells[row*g.cols+col])
		}
	}
}

// Refine brings every cell of the grid to the given depth.
func (g *Grid) Refine(f func(x, y float64) float64, depth int) {
	g.ForEach(func(col, row int, c *fixel.Cell) {
		start, end := g.CellWindow(col, row)
		c.AddSamples(f, start, end, depth)
	})
}

// Len returns the total number of samples held by the grid.
func (g *Grid) Len() int {
	n := 0
	for i := range g.cells {
		n += g.cells[i].Len()
	}
	return n
}
