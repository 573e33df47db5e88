package equart

import (
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/equart/field"
	"github.com/gogpu/equart/fixel"
)

// =============================================================================
// Domain Tests
// =============================================================================

func TestDomain_BandTilesExactly(t *testing.T) {
	domains := []Domain{
		DefaultDomain,
		{X0: 0, X1: 1, Y0: -0.3, Y1: 0.7},
		{X0: -100, X1: 100, Y0: 1e-3, Y1: 17.1},
	}
	for _, d := range domains {
		for count := 1; count <= 17; count++ {
			lo, _ := d.Band(0, count)
			if lo != d.Y0 {
				t.Errorf("%v Band(0, %d) lo = %v, want %v", d, count, lo, d.Y0)
			}
			_, hi := d.Band(count-1, count)
			if hi != d.Y1 {
				t.Errorf("%v Band(%d, %d) hi = %v, want %v", d, count-1, count, hi, d.Y1)
			}
			for id := 1; id < count; id++ {
				_, prevHi := d.Band(id-1, count)
				lo, hi := d.Band(id, count)
				if lo != prevHi {
					t.Errorf("%v Band(%d, %d) lo = %v, want previous hi %v", d, id, count, lo, prevHi)
				}
				if hi <= lo {
					t.Errorf("%v Band(%d, %d) = [%v, %v], want non-empty", d, id, count, lo, hi)
				}
			}
		}
	}
}

// =============================================================================
// Slice Tests
// =============================================================================

func TestNewSlice_Window(t *testing.T) {
	s := NewSlice(1, 4, 8, 2)
	start, end := s.Window()
	if start != (fixel.Point{X: -6, Y: -3}) || end != (fixel.Point{X: 6, Y: 0}) {
		t.Errorf("Window() = %v..%v, want (-6,-3)..(6,0)", start, end)
	}
	if cols, rows := s.Size(); cols != 8 || rows != 2 {
		t.Errorf("Size() = %dx%d, want 8x2", cols, rows)
	}
}

func TestSlice_RefineAndPixel(t *testing.T) {
	// y - x over [-6,6]^2 split in one band: diagonal cells hold the root.
	line := func(x, y float64) float64 { return y - x }
	s := NewSlice(0, 1, 4, 4, WithField(line))

	for y := range 4 {
		for x := range 4 {
			if got := s.Pixel(x, y); got != DefaultPalette.NoData {
				t.Fatalf("Pixel(%d,%d) before Refine = %v, want NoData", x, y, got)
			}
		}
	}

	s.Refine(6)
	if s.Samples() == 0 {
		t.Fatal("Samples() after Refine = 0")
	}
	for i := range 4 {
		if got := s.Pixel(i, i); got != DefaultPalette.Root {
			t.Errorf("Pixel(%d,%d) = %v, want Root", i, i, got)
		}
	}
	if got := s.Pixel(3, 0); got != DefaultPalette.Negative {
		t.Errorf("Pixel(3,0) = %v, want Negative", got)
	}
	if got := s.Pixel(0, 3); got != DefaultPalette.Positive {
		t.Errorf("Pixel(0,3) = %v, want Positive", got)
	}
}

func TestSlice_PixelOutOfRange(t *testing.T) {
	s := NewSlice(0, 1, 2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := s.Pixel(p[0], p[1]); got != DefaultPalette.NoData {
			t.Errorf("Pixel(%d,%d) = %v, want NoData", p[0], p[1], got)
		}
	}
}

func TestSlice_ResizeKeepsSamples(t *testing.T) {
	s := NewSlice(0, 2, 8, 4, WithField(field.Circle))
	s.Refine(4)
	n := s.Samples()

	st := s.Resize(16, 8)
	if st.Samples != n || st.Moved != n || st.Dropped != 0 {
		t.Errorf("Resize() = %+v, want %d samples all moved", st, n)
	}
	if cols, rows := s.Size(); cols != 16 || rows != 8 {
		t.Errorf("Size() after Resize = %dx%d, want 16x8", cols, rows)
	}
	if s.Samples() != n {
		t.Errorf("Samples() after Resize = %d, want %d", s.Samples(), n)
	}
}

func TestSlice_ResizeDoesNotResample(t *testing.T) {
	calls := 0
	positive := func(x, y float64) float64 {
		calls++
		return 1
	}
	s := NewSlice(0, 1, 8, 8, WithField(positive))
	s.Refine(10)
	if calls != 6400 || s.Samples() != 6400 {
		t.Fatalf("after Refine(10): %d evaluations, %d samples, want 6400 each", calls, s.Samples())
	}

	calls = 0
	for range 3 {
		s.Resize(8, 8)
		s.Refine(10)
	}
	if calls != 0 {
		t.Errorf("evaluations after resize and refine at same depth = %d, want 0", calls)
	}
	if s.Samples() != 6400 {
		t.Errorf("Samples() after resizes = %d, want 6400", s.Samples())
	}

	// The next depth only tops cells up.
	s.Refine(11)
	if calls != 64*(121-100) {
		t.Errorf("evaluations for Refine(11) = %d, want %d", calls, 64*(121-100))
	}
}

func TestNewSliceFactory(t *testing.T) {
	f := NewSliceFactory(WithDomain(Domain{X0: 0, X1: 1, Y0: 0, Y1: 1}))
	tile := f(1, 2, 3, 5)
	s, ok := tile.(*Slice)
	if !ok {
		t.Fatalf("factory returned %T, want *Slice", tile)
	}
	if s.id != 1 {
		t.Errorf("id = %d, want 1", s.id)
	}
	start, end := s.Window()
	if start.Y != 0.5 || end.Y != 1 {
		t.Errorf("Window() Y = [%v, %v], want [0.5, 1]", start.Y, end.Y)
	}
}

// =============================================================================
// Palette Tests
// =============================================================================

func TestPalette_Color(t *testing.T) {
	p := DefaultPalette
	mk := func(values ...float64) *fixel.Cell {
		var c fixel.Cell
		for _, v := range values {
			c.Receive(fixel.NewSample(fixel.Point{}, v, 1))
		}
		return &c
	}

	tests := []struct {
		name string
		cell *fixel.Cell
		want color.RGBA
	}{
		{"empty", mk(), p.NoData},
		{"positive", mk(1, 2), p.Positive},
		{"negative", mk(-1), p.Negative},
		{"root", mk(1, -1), p.Root},
		{"zero", mk(0), p.Root},
		{"out of domain", mk(1, -1, math.NaN()), p.OutOfDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Color(tt.cell); got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}
}
