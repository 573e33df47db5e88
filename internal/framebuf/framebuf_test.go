package framebuf

import (
	"image"
	"image/color"
	"testing"
)

var red = color.RGBA{R: 255, A: 255}

func TestNew_Filled(t *testing.T) {
	img := New(3, 2, red)
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds() = %v, want 3x2", img.Bounds())
	}
	for y := range 2 {
		for x := range 3 {
			if got := img.RGBAAt(x, y); got != red {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, red)
			}
		}
	}
}

func TestNew_Degenerate(t *testing.T) {
	img := New(-1, 4, Background)
	if !img.Bounds().Empty() {
		t.Errorf("Bounds() = %v, want empty", img.Bounds())
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"grow", 6, 5},
		{"shrink", 2, 1},
		{"wider shorter", 8, 2},
		{"same", 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(4, 3, Background)
			for y := range 3 {
				for x := range 4 {
					src.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
				}
			}

			dst := Resize(src, tt.w, tt.h, red)
			if dst.Bounds() != image.Rect(0, 0, tt.w, tt.h) {
				t.Fatalf("Bounds() = %v, want %dx%d", dst.Bounds(), tt.w, tt.h)
			}
			for y := range tt.h {
				for x := range tt.w {
					want := red
					if x < 4 && y < 3 {
						want = color.RGBA{R: uint8(x), G: uint8(y), A: 255}
					}
					if got := dst.RGBAAt(x, y); got != want {
						t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestResize_NilSource(t *testing.T) {
	dst := Resize(nil, 2, 2, red)
	if dst.RGBAAt(1, 1) != red {
		t.Errorf("pixel = %v, want %v", dst.RGBAAt(1, 1), red)
	}
}

func TestClone_Independent(t *testing.T) {
	src := New(2, 2, Background)
	dup := Clone(src)
	src.SetRGBA(0, 0, red)

	if dup.RGBAAt(0, 0) != Background {
		t.Errorf("clone changed with source: %v", dup.RGBAAt(0, 0))
	}
	if dup.Bounds() != src.Bounds() {
		t.Errorf("Bounds() = %v, want %v", dup.Bounds(), src.Bounds())
	}
}

func TestSetRow(t *testing.T) {
	img := New(4, 2, Background)
	SetRow(img, 1, func(x int) color.RGBA { return color.RGBA{R: uint8(10 * x), A: 255} })

	for x := range 4 {
		if got := img.RGBAAt(x, 0); got != Background {
			t.Errorf("row 0 pixel %d = %v, want background", x, got)
		}
		want := color.RGBA{R: uint8(10 * x), A: 255}
		if got := img.RGBAAt(x, 1); got != want {
			t.Errorf("row 1 pixel %d = %v, want %v", x, got, want)
		}
	}

	// Out of range rows are ignored.
	SetRow(img, 5, func(int) color.RGBA { return red })
}
