// Package config loads the settings of the equart command from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/field"
)

// Validation errors.
var (
	ErrSize     = errors.New("config: width and height must be positive")
	ErrWorkers  = errors.New("config: workers must not be negative")
	ErrDepth    = errors.New("config: depth must satisfy 0 <= start <= max")
	ErrDomain   = errors.New("config: domain must have x0 < x1 and y0 < y1")
	ErrTickRate = errors.New("config: tick_rate must be positive")
	ErrResize   = errors.New("config: resize_at needs a positive resize size")
)

// Config is the complete command configuration.
type Config struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Workers int    `yaml:"workers"` // 0 selects GOMAXPROCS
	Field   string `yaml:"field"`
	Domain  Domain `yaml:"domain"`
	Depth   Depth  `yaml:"depth"`

	// TickRate is the display refresh rate in frames per second.
	TickRate float64 `yaml:"tick_rate"`

	Render Render `yaml:"render"`
	Serve  Serve  `yaml:"serve"`
}

// Domain is the rectangle of the plane that is drawn.
type Domain struct {
	X0 float64 `yaml:"x0"`
	X1 float64 `yaml:"x1"`
	Y0 float64 `yaml:"y0"`
	Y1 float64 `yaml:"y1"`
}

// Depth bounds the progressive refinement.
type Depth struct {
	Start int `yaml:"start"`
	Max   int `yaml:"max"`
}

// Render holds headless rendering settings.
type Render struct {
	Frames   int    `yaml:"frames"`
	Output   string `yaml:"output"`
	HUD      bool   `yaml:"hud"`
	ResizeAt int    `yaml:"resize_at"` // frame at which to resize, 0 for never
	ResizeW  int    `yaml:"resize_width"`
	ResizeH  int    `yaml:"resize_height"`
}

// Serve holds web viewer settings.
type Serve struct {
	Listen string `yaml:"listen"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := equart.DefaultDomain
	return &Config{
		Width:    800,
		Height:   800,
		Field:    field.Default,
		Domain:   Domain{X0: d.X0, X1: d.X1, Y0: d.Y0, Y1: d.Y1},
		Depth:    Depth{Start: equart.DefaultStartDepth, Max: equart.DefaultMaxDepth},
		TickRate: 30,
		Render: Render{
			Frames: 120,
			Output: "equart.png",
		},
		Serve: Serve{
			Listen:          ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the renderer cannot use.
// Sizes below equart.MinResolution are accepted; the renderer clamps them.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrSize, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: got %d", ErrWorkers, c.Workers)
	}
	if c.Depth.Start < 0 || c.Depth.Start > c.Depth.Max {
		return fmt.Errorf("%w: got %d..%d", ErrDepth, c.Depth.Start, c.Depth.Max)
	}
	if !(c.Domain.X0 < c.Domain.X1) || !(c.Domain.Y0 < c.Domain.Y1) {
		return fmt.Errorf("%w: got [%v, %v] x [%v, %v]", ErrDomain,
			c.Domain.X0, c.Domain.X1, c.Domain.Y0, c.Domain.Y1)
	}
	if !(c.TickRate > 0) {
		return fmt.Errorf("%w: got %v", ErrTickRate, c.TickRate)
	}
	if c.Render.ResizeAt > 0 && (c.Render.ResizeW <= 0 || c.Render.ResizeH <= 0) {
		return ErrResize
	}
	if _, err := field.Lookup(c.Field); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Options returns the engine options selected by the configuration.
// The configuration must be valid.
func (c *Config) Options() []equart.Option {
	f, _ := field.Lookup(c.Field)
	return []equart.Option{
		equart.WithDomain(equart.Domain{X0: c.Domain.X0, X1: c.Domain.X1, Y0: c.Domain.Y0, Y1: c.Domain.Y1}),
		equart.WithField(f),
		equart.WithDepth(c.Depth.Start, c.Depth.Max),
	}
}
