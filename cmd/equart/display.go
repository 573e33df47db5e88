package main

import (
	"context"
	"image"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/internal/composite"
	"github.com/gogpu/equart/internal/config"
)

// display is the single loop that drives a Manager: it paces ticks,
// collects worker snapshots and composes them into one frame.
//
// It is NOT safe for concurrent use; the Manager it owns is not either.
type display struct {
	m       *equart.Manager
	limiter *rate.Limiter
	clock   *composite.Clock
	palette equart.Palette
	hud     bool

	frames int
	last   composite.Summary
}

func newDisplay(cfg *config.Config, reg prometheus.Registerer) *display {
	opts := cfg.Options()
	m := equart.NewManager(cfg.Width, cfg.Height, cfg.Workers,
		equart.NewSliceFactory(opts...),
		append(opts, equart.WithRegisterer(reg))...)
	return &display{
		m:       m,
		limiter: rate.NewLimiter(rate.Limit(cfg.TickRate), 1),
		clock:   composite.NewClock(0),
		palette: equart.DefaultPalette,
		hud:     cfg.Render.HUD,
	}
}

// tick waits for the next display slot and returns the composed frame.
func (d *display) tick(ctx context.Context) (*image.RGBA, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var img *image.RGBA
	d.clock.Time(composite.PhaseRequest, d.m.RequestUpdate)
	d.clock.Time(composite.PhaseReceive, func() { d.m.CollectUpdates() })
	d.clock.Time(composite.PhaseDraw, func() {
		w, h := d.m.Size()
		img = composite.Compose(w, h, d.palette.NoData, d.m.Snapshots())
		if d.hud {
			composite.Overlay(img, d.stats().Lines(language.English))
		}
	})
	d.frames++

	if s, ok := d.clock.Frame(); ok {
		d.last = s
		equart.Logger().Info("display",
			"fps", s.FPS,
			"req", s.Share(composite.PhaseRequest),
			"recv", s.Share(composite.PhaseReceive),
			"draw", s.Share(composite.PhaseDraw),
			"other", s.Share(composite.PhaseOther),
			"workers", d.m.Active())
	}
	return img, nil
}

// resize asks the manager for a new resolution.
func (d *display) resize(ctx context.Context, width, height int) error {
	return d.m.Resize(ctx, width, height)
}

func (d *display) stats() composite.Stats {
	w, h := d.m.Size()
	return composite.Stats{
		Width: w, Height: h,
		Active: d.m.Active(), Bands: d.m.Bands(),
		Frames:  d.frames,
		Summary: d.last,
	}
}

func (d *display) close() {
	d.m.Close()
}
