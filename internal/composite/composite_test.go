package composite

import (
	"image"
	"image/color"
	"iter"
	"slices"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/internal/framebuf"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
	bg   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func band(width, height int, c color.RGBA) *image.RGBA {
	return framebuf.New(width, height, c)
}

// =============================================================================
// Compose Tests
// =============================================================================

func TestCompose_PlacesBands(t *testing.T) {
	snaps := slices.Values([]equart.Snapshot{
		{ID: 0, Span: 0, Image: band(4, 5, red)},
		{ID: 1, Span: 0.5, Image: band(4, 5, blue)},
	})

	img := Compose(4, 10, bg, snaps)
	if got := img.Bounds().Size(); got != (image.Point{X: 4, Y: 10}) {
		t.Fatalf("size = %v, want 4x10", got)
	}
	for y := range 10 {
		want := red
		if y >= 5 {
			want = blue
		}
		if got := img.RGBAAt(2, y); got != want {
			t.Errorf("pixel (2,%d) = %v, want %v", y, got, want)
		}
	}
}

func TestCompose_MissingBandKeepsBackground(t *testing.T) {
	snaps := slices.Values([]equart.Snapshot{
		{ID: 0, Span: 0, Image: band(3, 3, red)},
		{ID: 2, Span: 2.0 / 3, Image: band(3, 3, blue)},
	})

	img := Compose(3, 9, bg, snaps)
	for y := 3; y < 6; y++ {
		if got := img.RGBAAt(1, y); got != bg {
			t.Errorf("pixel (1,%d) = %v, want background", y, got)
		}
	}
	if got := img.RGBAAt(1, 8); got != blue {
		t.Errorf("pixel (1,8) = %v, want blue", got)
	}
}

func TestCompose_ClipsOversizedBand(t *testing.T) {
	snaps := slices.Values([]equart.Snapshot{
		{ID: 0, Span: 0.5, Image: band(8, 8, red)},
		{ID: 1, Span: 0.9, Image: nil},
	})

	img := Compose(4, 4, bg, snaps)
	if got := img.RGBAAt(3, 3); got != red {
		t.Errorf("pixel (3,3) = %v, want red", got)
	}
	if got := img.RGBAAt(0, 1); got != bg {
		t.Errorf("pixel (0,1) = %v, want background", got)
	}
}

func TestCompose_Empty(t *testing.T) {
	var none iter.Seq[equart.Snapshot] = func(func(equart.Snapshot) bool) {}
	img := Compose(2, 2, bg, none)
	if got := img.RGBAAt(0, 0); got != bg {
		t.Errorf("pixel = %v, want background", got)
	}
}

// =============================================================================
// Scale Tests
// =============================================================================

func TestScale(t *testing.T) {
	src := band(2, 2, red)
	src.SetRGBA(1, 1, blue)

	dst := Scale(src, 4, 4)
	if got := dst.Bounds().Size(); got != (image.Point{X: 4, Y: 4}) {
		t.Fatalf("size = %v, want 4x4", got)
	}
	if got := dst.RGBAAt(0, 0); got != red {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := dst.RGBAAt(3, 3); got != blue {
		t.Errorf("pixel (3,3) = %v, want blue", got)
	}

	if same := Scale(src, 2, 2); same != src {
		t.Error("Scale() to same size should return src")
	}
	if empty := Scale(src, 0, 5); !empty.Bounds().Empty() {
		t.Errorf("Scale() to zero = %v, want empty", empty.Bounds())
	}
}

// =============================================================================
// Overlay Tests
// =============================================================================

func TestOverlay_DrawsPanel(t *testing.T) {
	img := band(200, 60, bg)
	Overlay(img, []string{"hello", "world"})

	if got := img.RGBAAt(1, 1); got == bg {
		t.Error("panel not drawn at top-left")
	}
	if got := img.RGBAAt(199, 59); got != bg {
		t.Errorf("pixel (199,59) = %v, want untouched", got)
	}
}

func TestOverlay_NoLines(t *testing.T) {
	img := band(10, 10, bg)
	Overlay(img, nil)
	if got := img.RGBAAt(0, 0); got != bg {
		t.Errorf("pixel = %v, want untouched", got)
	}
}

func TestStats_Lines(t *testing.T) {
	s := Stats{
		Width: 1920, Height: 1080, Active: 3, Bands: 4, Frames: 12345,
		Summary: Summary{
			Elapsed: time.Second,
			FPS:     59.94,
			Phases:  [numPhases]time.Duration{PhaseDraw: 250 * time.Millisecond},
		},
	}
	lines := s.Lines(language.English)
	want := []string{
		"1,920 x 1,080 px  workers 3/4",
		"frame 12,345  59.9 fps",
		"req 0.00%  recv 0.00%  draw 25.00%",
	}
	if !slices.Equal(lines, want) {
		t.Errorf("Lines() = %q, want %q", lines, want)
	}
}

// =============================================================================
// Clock Tests
// =============================================================================

// fakeTime is a manually advanced clock source.
type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time      { return f.t }
func (f *fakeTime) add(d time.Duration) { f.t = f.t.Add(d) }

func TestClock_ReportsOncePerPeriod(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(time.Second)
	c.now = ft.now
	c.start = ft.now()

	for range 9 {
		c.Time(PhaseDraw, func() { ft.add(50 * time.Millisecond) })
		ft.add(50 * time.Millisecond)
		if _, ok := c.Frame(); ok {
			t.Fatal("Frame() reported before a full period")
		}
	}

	c.Add(PhaseRequest, 10*time.Millisecond)
	ft.add(100 * time.Millisecond)
	s, ok := c.Frame()
	if !ok {
		t.Fatal("Frame() did not report after a full period")
	}
	if s.Frames != 10 || s.FPS != 10 {
		t.Errorf("Summary = %d frames at %v fps, want 10 at 10", s.Frames, s.FPS)
	}
	if got := s.Share(PhaseDraw); got < 0.449 || got > 0.451 {
		t.Errorf("Share(draw) = %v, want 0.45", got)
	}
	if got := s.Share(PhaseRequest); got < 0.0099 || got > 0.0101 {
		t.Errorf("Share(request) = %v, want 0.01", got)
	}

	ft.add(10 * time.Millisecond)
	if _, ok := c.Frame(); ok {
		t.Error("Frame() reported right after reset")
	}
}

func TestNewClock_DefaultPeriod(t *testing.T) {
	if c := NewClock(0); c.period != time.Second {
		t.Errorf("period = %v, want 1s", c.period)
	}
}

func TestSummary_ShareBounds(t *testing.T) {
	var s Summary
	if s.Share(PhaseDraw) != 0 {
		t.Error("Share() with no elapsed time should be 0")
	}
	s.Elapsed = time.Second
	if s.Share(Phase(-1)) != 0 || s.Share(numPhases) != 0 {
		t.Error("Share() of unknown phase should be 0")
	}
}

func TestPhase_String(t *testing.T) {
	for p, want := range map[Phase]string{
		PhaseRequest: "request", PhaseReceive: "receive",
		PhaseDraw: "draw", PhaseOther: "other", numPhases: "unknown",
	} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
