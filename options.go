package equart

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/equart/field"
)

// Option configures a Manager or a Slice during creation.
//
// Example:
//
//	m := equart.NewManager(800, 600, runtime.NumCPU(),
//	    equart.NewSliceFactory(equart.WithField(field.Circle)),
//	    equart.WithDepth(2, 12),
//	    equart.WithRegisterer(prometheus.DefaultRegisterer))
type Option func(*options)

// options holds optional configuration shared by Manager and Slice.
type options struct {
	domain     Domain
	field      field.Func
	palette    Palette
	startDepth int
	maxDepth   int
	registerer prometheus.Registerer
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		domain:     DefaultDomain,
		field:      field.Equart,
		palette:    DefaultPalette,
		startDepth: DefaultStartDepth,
		maxDepth:   DefaultMaxDepth,
		registerer: nil, // metrics are collected but not exported
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithDomain sets the full domain window drawn by all workers together.
func WithDomain(d Domain) Option {
	return func(o *options) {
		o.domain = d
	}
}

// WithField sets the scalar field to draw. A nil field is ignored.
func WithField(f field.Func) Option {
	return func(o *options) {
		if f != nil {
			o.field = f
		}
	}
}

// WithPalette sets the colours used for each cell class.
// The NoData colour is also the background of fresh frame buffers.
func WithPalette(p Palette) Option {
	return func(o *options) {
		o.palette = p
	}
}

// WithDepth sets the initial and maximum refinement depth of each worker.
// The first frame refines to start+1. A start above limit is lowered to limit.
func WithDepth(start, limit int) Option {
	return func(o *options) {
		o.startDepth = start
		o.maxDepth = limit
	}
}

// WithRegisterer registers the manager's Prometheus collectors on reg.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := equart.NewManager(w, h, n, factory, equart.WithRegisterer(reg))
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
