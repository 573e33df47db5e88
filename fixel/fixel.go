// Package fixel implements the grid cell used by the progressive renderer.
//
// A fixel is to the renderer what a pixel is to an image, except that it
// holds a bag of probe samples of the scalar field instead of a colour.
// The classification of a fixel (root, sign, out of domain) is derived from
// its samples and is recomputed whenever samples are added or moved in.
//
// Samples are individually owned: a sample belongs to exactly one Cell at a
// time. When the rendering grid changes resolution, samples are taken out of
// the old cells and handed to the cells of the new grid (see Take, Receive
// and Sample.Destinations).
//
// Thread safety: Cell is NOT safe for concurrent use. Each cell is owned by a
// single render worker.
package fixel

import "iter"

// Point is a position in domain (real) coordinates.
type Point struct {
	X, Y float64
}

// Loc is a (column, row) cell coordinate in a grid. It may lie outside the
// grid it is meant for.
type Loc struct {
	Col, Row int
}

// Class is the classification of a cell.
type Class uint8

const (
	// NoData means the cell owns no usable evidence.
	NoData Class = iota
	// Positive means every finite sample is positive.
	Positive
	// Negative means every finite sample is negative.
	Negative
	// Root means the field changes sign (or is exactly zero) inside the cell.
	Root
	// OutOfDomain means at least one sample evaluated to NaN or ±Inf.
	OutOfDomain
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case NoData:
		return "NoData"
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	case Root:
		return "Root"
	case OutOfDomain:
		return "OutOfDomain"
	default:
		return "Unknown"
	}
}

// Mood is the dominant sign of the finite samples of a cell.
type Mood uint8

const (
	// MoodNoData means the cell has no finite non-zero sample.
	MoodNoData Mood = iota
	// MoodPositive means positive samples are at least as many as negative ones.
	MoodPositive
	// MoodNegative means negative samples outnumber positive ones.
	MoodNegative
)

// String returns the mood name.
func (m Mood) String() string {
	switch m {
	case MoodNoData:
		return "NoData"
	case MoodPositive:
		return "Positive"
	case MoodNegative:
		return "Negative"
	default:
		return "Unknown"
	}
}

// Cell is a single fixel: an unordered collection of samples plus the
// classification derived from them.
//
// The zero value is an empty cell that classifies as NoData.
type Cell struct {
	samples []*Sample

	// seq is the last index drawn from the low-discrepancy sequence used
	// by AddSamples.
	seq int

	// depth is the refinement depth this cell has been brought to, either
	// by AddSamples or by receiving samples generated at that depth.
	depth int

	// Running tallies over samples, kept in sync by add and Reclassify.
	pos, neg, zero, bad int

	class Class
}

// Classify returns the current classification of the cell.
func (c *Cell) Classify() Class {
	return c.class
}

// Mood returns the majority sign of the finite samples. Ties go to positive.
func (c *Cell) Mood() Mood {
	switch {
	case c.pos == 0 && c.neg == 0:
		return MoodNoData
	case c.pos >= c.neg:
		return MoodPositive
	default:
		return MoodNegative
	}
}

// Len returns the number of samples owned by the cell.
func (c *Cell) Len() int {
	return len(c.samples)
}

// Depth returns the refinement depth the cell has reached.
func (c *Cell) Depth() int {
	return c.depth
}

// Samples iterates over the owned samples. The samples must not be modified.
func (c *Cell) Samples() iter.Seq[*Sample] {
	return func(yield func(*Sample) bool) {
		for _, s := range c.samples {
			if !yield(s) {
				return
			}
		}
	}
}

// converged reports whether further sampling cannot change the class.
func (c *Cell) converged() bool {
	return c.class == Root || c.class == OutOfDomain
}

// AddSamples brings the cell to the given refinement depth by evaluating f
// at new probe points inside the rectangle [start, end].
//
// Depth d targets d*d owned samples spread over the rectangle on a Halton
// (2,3) sequence, so each depth step adds points between the existing ones
// rather than on top of them. Samples received from another cell count
// towards the target. Calling AddSamples with a depth at or below the depth
// already reached is a no-op. A cell that has found a root or a domain error
// stops sampling.
func (c *Cell) AddSamples(f func(x, y float64) float64, start, end Point, depth int) {
	if depth <= c.depth {
		return
	}
	c.depth = depth
	if c.converged() {
		return
	}

	w := end.X - start.X
	h := end.Y - start.Y
	target := depth * depth
	c.seq = max(c.seq, len(c.samples))
	for len(c.samples) < target {
		c.seq++
		p := Point{
			X: start.X + halton(c.seq, 2)*w,
			Y: start.Y + halton(c.seq, 3)*h,
		}
		c.add(&Sample{Pos: p, Value: f(p.X, p.Y), Depth: depth})
		if c.converged() {
			return
		}
	}
}

// Receive transfers ownership of s into the cell. The caller must no longer
// hold s in any other cell. The cell counts as refined to at least the depth
// s was generated at.
func (c *Cell) Receive(s *Sample) {
	c.depth = max(c.depth, s.Depth)
	c.add(s)
}

// Take removes and returns every sample owned by the cell, leaving it empty
// and classified NoData.
func (c *Cell) Take() []*Sample {
	out := c.samples
	*c = Cell{}
	return out
}

// Reclassify recomputes the tallies and class from the owned samples.
func (c *Cell) Reclassify() {
	c.pos, c.neg, c.zero, c.bad = 0, 0, 0, 0
	for _, s := range c.samples {
		c.tally(s)
	}
	c.classify()
}

func (c *Cell) add(s *Sample) {
	c.samples = append(c.samples, s)
	c.tally(s)
	c.classify()
}

func (c *Cell) tally(s *Sample) {
	switch v := s.Value; {
	case !s.Finite():
		c.bad++
	case v > 0:
		c.pos++
	case v < 0:
		c.neg++
	default:
		c.zero++
	}
}

func (c *Cell) classify() {
	switch {
	case len(c.samples) == 0:
		c.class = NoData
	case c.bad > 0:
		c.class = OutOfDomain
	case c.zero > 0 || (c.pos > 0 && c.neg > 0):
		c.class = Root
	case c.pos > 0:
		c.class = Positive
	default:
		c.class = Negative
	}
}

// halton returns the i-th element of the van der Corput sequence in base b.
func halton(i, b int) float64 {
	f := 1.0
	r := 0.0
	for i > 0 {
		f /= float64(b)
		r += f * float64(i%b)
		i /= b
	}
	return r
}
