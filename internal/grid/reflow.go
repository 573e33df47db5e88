package grid

// ReflowStats describes one reflow.
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

// Reflow changes the grid resolution to cols x rows, moving every sample
// of the old grid into the new one instead of discarding it.
//
// The window is unchanged; only the cell size is recomputed. Each sample is
// handed to the first of its candidate destinations that lies inside the
// new grid, so it ends up in at most one cell. A sample whose candidates are
// all out of bounds is dropped and counted. After the move every new cell is
// reclassified from the samples it received; cells that received none stay
// NoData.
//
// Non-positive dimensions leave the grid untouched.
func (g *Grid) Reflow(cols, rows int) ReflowStats {
	var st ReflowStats
	if cols <= 0 || rows <= 0 {
		return st
	}

	next := New(g.window, cols, rows)
	for i := range g.cells {
		st.Cells++
		for _, s := range g.cells[i].Take() {
			st.Samples++
			placed := false
			for _, loc := range s.Destinations(g.window.Start, g.window.End, next.cellW, next.cellH) {
				if dst := next.At(loc.Col, loc.Row); dst != nil {
					dst.Receive(s)
					placed = true
					break
				}
			}
			if placed {
				st.Moved++
			} else {
				st.Dropped++
			}
		}
	}

	for i := range next.cells {
		next.cells[i].Reclassify()
	}

	*g = *next
	return st
}
