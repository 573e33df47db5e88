// Package webview serves the rendered image to browsers over a WebSocket.
//
// The display loop publishes encoded frames into a Hub; each connected
// viewer is sent the newest frame whenever it is ready for one. Frames are
// overwritten, never queued, so a slow viewer skips frames instead of
// holding memory or slowing the renderer. Viewers may ask for a new
// resolution; the display loop picks the request up without blocking.
package webview

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrHubClosed is returned by Next once the hub is closed.
var ErrHubClosed = errors.New("webview: hub closed")

// Frame is one encoded image published to viewers.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	PNG    []byte
}

// Size is a resolution requested by a viewer.
type Size struct {
	Width, Height int
}

// Hub is a single-slot frame mailbox with many readers.
//
// All methods are safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	frame   Frame
	changed chan struct{} // closed and replaced on every publish
	closed  bool

	// overwritten counts frames replaced before any viewer read them.
	overwritten uint64
	read        bool

	resize chan Size
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		changed: make(chan struct{}),
		resize:  make(chan Size, 1),
	}
}

// Publish replaces the current frame and wakes every waiting viewer. It
// never blocks on viewers.
func (h *Hub) Publish(width, height int, png []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if h.frame.Seq > 0 && !h.read {
		h.overwritten++
	}
	h.frame = Frame{Seq: h.frame.Seq + 1, Width: width, Height: height, PNG: png}
	h.read = false
	close(h.changed)
	h.changed = make(chan struct{})
}

// Next blocks until a frame newer than after is available and returns it.
// Pass 0 to get the current frame as soon as there is one.
func (h *Hub) Next(ctx context.Context, after uint64) (Frame, error) {
	for {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return Frame{}, ErrHubClosed
		}
		if h.frame.Seq > after {
			f := h.frame
			h.read = true
			h.mu.Unlock()
			return f, nil
		}
		changed := h.changed
		h.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}
}

// Overwritten returns the number of frames no viewer read.
func (h *Hub) Overwritten() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overwritten
}

// Collector exports Overwritten as a Prometheus counter.
func (h *Hub) Collector() prometheus.Collector {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "equart",
		Subsystem: "webview",
		Name:      "frames_overwritten_total",
		Help:      "Frames replaced before any viewer read them",
	}, func() float64 {
		return float64(h.Overwritten())
	})
}

// RequestResize records a resolution request. A pending request that has
// not been picked up yet is replaced.
func (h *Hub) RequestResize(width, height int) {
	s := Size{Width: width, Height: height}
	for {
		select {
		case h.resize <- s:
			return
		default:
		}
		select {
		case <-h.resize:
		default:
		}
	}
}

// Resizes delivers pending resolution requests. Receive from it with a
// select default case to poll without blocking.
func (h *Hub) Resizes() <-chan Size {
	return h.resize
}

// Close wakes all viewers with ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.changed)
}
