package equart

import (
	"image"
	"image/color"
	"strconv"
	"time"

	"github.com/gogpu/equart/internal/framebuf"
)

// Worker renders one band of the image on its own goroutine.
//
// The worker owns its Tile and frame buffer exclusively; the only way to
// reach it is through its two mailboxes. Each loop iteration first polls
// the control channel without blocking, then draws one scanline, so
// commands never starve rendering and rendering never waits for commands.
// Once the image is converged and fully drawn the worker parks on the
// control channel until the next command.
//
// The worker exits when its control channel is closed or its Tile panics.
// On exit it closes its current draw channel and then Done.
type Worker struct {
	id    int
	label string

	newTile func() Tile
	tile    Tile
	sched   *Scheduler

	control <-chan Command
	draw    chan<- *image.RGBA

	buf *image.RGBA
	bg  color.RGBA

	metrics *Metrics

	// Throughput accounting since rateStart.
	pixels    uint64
	rateStart time.Time

	done chan struct{}
}

func newWorker(id int, newTile func() Tile, sched *Scheduler, control <-chan Command,
	draw chan<- *image.RGBA, bg color.RGBA, metrics *Metrics) *Worker {
	return &Worker{
		id:      id,
		label:   strconv.Itoa(id),
		newTile: newTile,
		sched:   sched,
		control: control,
		draw:    draw,
		bg:      bg,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Done is closed after the worker has exited and closed its draw channel.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// run is the worker loop. It returns when the control channel is closed.
func (w *Worker) run() {
	defer close(w.done)
	defer func() { close(w.draw) }()
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("worker crashed", "worker", w.id, "panic", r)
		}
	}()

	w.tile = w.newTile()
	cols, rows := w.tile.Size()
	w.buf = framebuf.New(cols, rows, w.bg)
	w.rateStart = time.Now()
	Logger().Info("worker started", "worker", w.id, "width", cols, "height", rows)

	for w.poll() {
		w.step()
	}
	Logger().Debug("worker stopped", "worker", w.id)
}

// poll services at most one command. It reports false once the control
// channel is closed.
func (w *Worker) poll() bool {
	var (
		cmd Command
		ok  bool
	)
	if w.sched.Idle() {
		cmd, ok = <-w.control
	} else {
		select {
		case cmd, ok = <-w.control:
		default:
			return true
		}
	}
	if !ok {
		return false
	}

	switch c := cmd.(type) {
	case RequestSnapshot:
		w.snapshot()
	case SetResolution:
		w.resize(c)
	}
	return true
}

// snapshot offers a copy of the buffer on the draw channel. A full channel
// drops the snapshot; the display keeps its previous frame.
func (w *Worker) snapshot() {
	if len(w.draw) == cap(w.draw) {
		w.metrics.Snapshots.WithLabelValues(w.label, "dropped").Inc()
		return
	}
	select {
	case w.draw <- framebuf.Clone(w.buf):
		w.metrics.Snapshots.WithLabelValues(w.label, "sent").Inc()
	default:
		w.metrics.Snapshots.WithLabelValues(w.label, "dropped").Inc()
		return
	}

	if elapsed := time.Since(w.rateStart); elapsed >= time.Second {
		rate := float64(w.pixels) / elapsed.Seconds()
		Logger().Debug("worker rate", "worker", w.id, "mpps", rate/1e6, "depth", w.sched.Depth())
		w.metrics.PixelRate.WithLabelValues(w.label).Set(rate)
		w.rateStart = time.Now()
		w.pixels = 0
	}
}

// resize reflows the tile, resizes the buffer keeping drawn pixels, and
// switches to the new draw channel.
func (w *Worker) resize(c SetResolution) {
	Logger().Info("worker resolution", "worker", w.id, "width", c.Width, "height", c.Height)
	st := w.tile.Resize(c.Width, c.Height)
	w.buf = framebuf.Resize(w.buf, c.Width, c.Height, w.bg)

	close(w.draw)
	w.draw = c.Reply
	w.sched.Invalidate()

	w.metrics.observeReflow(st)
	Logger().Debug("reflow done", "worker", w.id,
		"cells", st.Cells, "samples", st.Samples, "moved", st.Moved, "dropped", st.Dropped)
}

// step draws one scanline, running a refinement pass first when a new
// frame starts below the maximum depth.
func (w *Worker) step() {
	b := w.buf.Bounds()
	line, depth, refine := w.sched.Step(b.Dy())
	if refine {
		w.tile.Refine(depth)
		w.metrics.Depth.WithLabelValues(w.label).Set(float64(depth))
	}
	if b.Empty() {
		return
	}
	framebuf.SetRow(w.buf, line, func(x int) color.RGBA {
		return w.tile.Pixel(x, line)
	})
	w.pixels += uint64(b.Dx())
}
