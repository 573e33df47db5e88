package fixel

import "math"

// edgeTolerance is the fraction of a cell size within which a point counts
// as lying on a shared cell edge.
const edgeTolerance = 1e-9

// Sample is one evaluated probe of the scalar field.
type Sample struct {
	// Pos is the probe position in domain coordinates.
	Pos Point

	// Value is f(Pos). It may be NaN or ±Inf.
	Value float64

	// Depth is the refinement depth at which the probe was generated.
	Depth int
}

// NewSample returns a sample with the given position, value and depth.
func NewSample(p Point, value float64, depth int) *Sample {
	return &Sample{Pos: p, Value: value, Depth: depth}
}

// Finite reports whether the sample value is a usable number.
func (s *Sample) Finite() bool {
	return !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

// Destinations returns the candidate cells of a grid with the given window
// and cell size that this sample may be moved into, most preferred first.
//
// The cell containing the sample position always comes first. When the
// position sits on an edge shared with a lower-index neighbour (within
// edgeTolerance of the cell size), that neighbour is offered as well, so a
// probe lying exactly on the window's far edge still has an in-bounds
// candidate. Positions strictly outside [start, end] yield only their raw,
// out-of-bounds location. Candidates are not clipped to any grid.
func (s *Sample) Destinations(start, end Point, cellW, cellH float64) []Loc {
	if cellW <= 0 || cellH <= 0 {
		return nil
	}

	fx := (s.Pos.X - start.X) / cellW
	fy := (s.Pos.Y - start.Y) / cellH
	col := int(math.Floor(fx))
	row := int(math.Floor(fy))

	locs := make([]Loc, 1, 4)
	locs[0] = Loc{Col: col, Row: row}

	if outside(s.Pos, start, end, cellW, cellH) {
		return locs
	}

	left := fx-float64(col) < edgeTolerance && col > 0
	bottom := fy-float64(row) < edgeTolerance && row > 0
	if left {
		locs = append(locs, Loc{Col: col - 1, Row: row})
	}
	if bottom {
		locs = append(locs, Loc{Col: col, Row: row - 1})
	}
	if left && bottom {
		locs = append(locs, Loc{Col: col - 1, Row: row - 1})
	}
	return locs
}

func outside(p, start, end Point, cellW, cellH float64) bool {
	ex := cellW * edgeTolerance
	ey := cellH * edgeTolerance
	return p.X < start.X-ex || p.X > end.X+ex ||
		p.Y < start.Y-ey || p.Y > end.Y+ey
}
