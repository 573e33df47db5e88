package composite

import (
	"image"
	"image/color"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// hudPadding is the margin around the overlay text in pixels.
const hudPadding = 4

var (
	hudText   = image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	hudShadow = image.NewUniform(color.RGBA{A: 180})
	hudPanel  = image.NewUniform(color.RGBA{A: 160})
)

// Stats is what the overlay reports.
type Stats struct {
	Width, Height int
	Active, Bands int
	Frames        int
	Summary       Summary
}

// Lines formats s for the overlay with the number conventions of tag.
func (s Stats) Lines(tag language.Tag) []string {
	p := message.NewPrinter(tag)
	return []string{
		p.Sprintf("%d x %d px  workers %d/%d", s.Width, s.Height, s.Active, s.Bands),
		p.Sprintf("frame %d  %.1f fps", s.Frames, s.Summary.FPS),
		p.Sprintf("req %.2f%%  recv %.2f%%  draw %.2f%%",
			s.Summary.Share(PhaseRequest)*100,
			s.Summary.Share(PhaseReceive)*100,
			s.Summary.Share(PhaseDraw)*100),
	}
}

// Overlay draws lines in the top-left corner of dst over a translucent
// panel, one 7x13 text line each.
func Overlay(dst *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: hudText, Face: face}

	width := 0
	for _, l := range lines {
		width = max(width, d.MeasureString(l).Ceil())
	}
	lineH := face.Metrics().Height.Ceil()
	panel := image.Rect(0, 0, width+2*hudPadding, len(lines)*lineH+2*hudPadding).
		Add(dst.Bounds().Min)
	xdraw.Draw(dst, panel, hudPanel, image.Point{}, xdraw.Over)

	x := panel.Min.X + hudPadding
	y := panel.Min.Y + hudPadding + face.Metrics().Ascent.Ceil()
	shadow := &font.Drawer{Dst: dst, Src: hudShadow, Face: face}
	for _, l := range lines {
		shadow.Dot = fixed.P(x+1, y+1)
		shadow.DrawString(l)
		d.Dot = fixed.P(x, y)
		d.DrawString(l)
		y += lineH
	}
}

// Phase is one part of a display frame.
type Phase int

// Display frame phases.
const (
	PhaseRequest Phase = iota
	PhaseReceive
	PhaseDraw
	PhaseOther
	numPhases
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRequest:
		return "request"
	case PhaseReceive:
		return "receive"
	case PhaseDraw:
		return "draw"
	case PhaseOther:
		return "other"
	default:
		return "unknown"
	}
}

// Summary is the display timing over one reporting period.
type Summary struct {
	Elapsed time.Duration
	Frames  int
	FPS     float64
	Phases  [numPhases]time.Duration
}

// Share returns the fraction of wall time spent in phase p.
func (s Summary) Share(p Phase) float64 {
	if s.Elapsed <= 0 || p < 0 || p >= numPhases {
		return 0
	}
	return s.Phases[p].Seconds() / s.Elapsed.Seconds()
}

// Clock accumulates display frame timings and reports them once per period.
//
// Thread safety: Clock is NOT thread-safe; it belongs to the display loop.
type Clock struct {
	period time.Duration
	now    func() time.Time

	start  time.Time
	frames int
	phases [numPhases]time.Duration
}

// NewClock returns a clock reporting every period. A non-positive period
// defaults to one second.
func NewClock(period time.Duration) *Clock {
	if period <= 0 {
		period = time.Second
	}
	c := &Clock{period: period, now: time.Now}
	c.start = c.now()
	return c
}

// Time runs fn and charges its duration to phase p.
func (c *Clock) Time(p Phase, fn func()) {
	t := c.now()
	fn()
	c.Add(p, c.now().Sub(t))
}

// Add charges d to phase p.
func (c *Clock) Add(p Phase, d time.Duration) {
	if p >= 0 && p < numPhases {
		c.phases[p] += d
	}
}

// Frame counts one display frame. Once a full period has passed it returns
// the period's summary and true, and starts a new period.
func (c *Clock) Frame() (Summary, bool) {
	c.frames++
	now := c.now()
	elapsed := now.Sub(c.start)
	if elapsed < c.period {
		return Summary{}, false
	}
	s := Summary{
		Elapsed: elapsed,
		Frames:  c.frames,
		FPS:     float64(c.frames) / elapsed.Seconds(),
		Phases:  c.phases,
	}
	c.start = now
	c.frames = 0
	c.phases = [numPhases]time.Duration{}
	return s, true
}
