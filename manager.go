package equart

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"iter"
	"runtime"
	"sync"

	"github.com/gogpu/equart/internal/framebuf"
)

// MinResolution is the smallest accepted width and height in pixels.
const MinResolution = 16

// Errors returned by Manager.
var (
	// ErrResizeAborted is returned when a resize could not be delivered to
	// every worker. The previous resolution stays in effect.
	ErrResizeAborted = errors.New("equart: resize aborted")

	// ErrWorkerGone is wrapped by ErrResizeAborted when a worker has exited.
	ErrWorkerGone = errors.New("equart: worker gone")

	// ErrClosed is returned by Resize after Close.
	ErrClosed = errors.New("equart: manager closed")
)

// Snapshot is the latest frame buffer received from one worker.
type Snapshot struct {
	// ID is the worker id, which is also its band index.
	ID int

	// Span is the vertical placement of the band in the composited image,
	// as a fraction in [0, 1) of the full height.
	Span float64

	// Image is the band's pixels. It is never modified after delivery.
	Image *image.RGBA
}

// slot is the manager-side end of one worker. Slots are never removed from
// the roster; a lost worker leaves a retired tombstone so ids stay stable
// while iterating.
type slot struct {
	id   int
	span float64

	control   chan Command
	closeOnce sync.Once

	draw <-chan *image.RGBA
	done <-chan struct{}

	buf     *image.RGBA
	retired bool
}

func (s *slot) closeControl() {
	s.closeOnce.Do(func() { close(s.control) })
}

// Manager owns the worker pool, partitions the domain into horizontal
// bands, and gives the display a uniform view of all current frames.
//
// No call blocks indefinitely: snapshot requests and collection are
// non-blocking channel attempts, and a miss simply means "try next tick".
// The only blocking step is delivering a resize command to a worker whose
// control mailbox is still full, which lasts until the worker drains it.
//
// Thread safety: Manager is NOT safe for concurrent use. It is meant to be
// driven from a single display loop.
type Manager struct {
	slots  []*slot
	active int

	width  int
	height int

	bg      color.RGBA
	metrics *Metrics

	wg     sync.WaitGroup
	closed bool
}

// NewManager starts count workers rendering a width x height image.
//
// Worker id owns band id of count (see Domain.Band) and a grid of
// width x height/count cells built by factory on the worker's goroutine.
// If count is 0 or negative, GOMAXPROCS is used. Dimensions below
// MinResolution are raised to it.
func NewManager(width, height, count int, factory Factory, opts ...Option) *Manager {
	o := applyOptions(opts)
	if count <= 0 {
		count = runtime.GOMAXPROCS(0)
	}
	width, height = clampResolution(width, height)
	rows := bandRows(height, count)

	m := &Manager{
		slots:   make([]*slot, 0, count),
		width:   width,
		height:  height,
		bg:      o.palette.NoData,
		metrics: NewMetrics(o.registerer),
	}

	for id := range count {
		control := make(chan Command, controlCapacity)
		draw := make(chan *image.RGBA, drawCapacity)
		newTile := func() Tile { return factory(id, count, width, rows) }
		w := newWorker(id, newTile, NewScheduler(o.startDepth, o.maxDepth), control, draw, m.bg, m.metrics)

		m.slots = append(m.slots, &slot{
			id:      id,
			span:    float64(id) / float64(count),
			control: control,
			draw:    draw,
			done:    w.Done(),
			buf:     framebuf.New(width, rows, m.bg),
		})

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.run()
		}()
	}
	m.active = count
	m.metrics.ActiveWorkers.Set(float64(count))

	Logger().Info("workers spawned", "count", count, "width", width, "height", height, "band", rows)
	return m
}

// RequestUpdate asks every active worker for a fresh snapshot. A worker
// whose control mailbox is still full has not drained the previous request;
// the new request is dropped, never queued.
func (m *Manager) RequestUpdate() {
	if m.closed {
		return
	}
	for _, s := range m.slots {
		if s.retired {
			continue
		}
		select {
		case s.control <- RequestSnapshot{}:
			m.metrics.Requests.WithLabelValues("sent").Inc()
		default:
			m.metrics.Requests.WithLabelValues("dropped").Inc()
		}
	}
}

// CollectUpdates takes the newest available snapshot from every active
// worker. Workers with nothing new keep their previous buffer. Workers that
// have exited are retired from the roster for good; the number retired by
// this call is returned.
func (m *Manager) CollectUpdates() int {
	retired := 0
	for _, s := range m.slots {
		if s.retired || m.receive(s) {
			continue
		}
		m.retire(s)
		retired++
	}
	return retired
}

// receive polls one slot. It reports false once the worker is gone.
func (m *Manager) receive(s *slot) bool {
	select {
	case buf, ok := <-s.draw:
		if !ok {
			return false
		}
		s.buf = buf
		return true
	default:
	}

	// Nothing pending. A worker that died before adopting the current
	// draw channel never closes it, so check the worker itself.
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (m *Manager) retire(s *slot) {
	s.retired = true
	s.closeControl()
	m.active--
	m.metrics.ActiveWorkers.Set(float64(m.active))
	Logger().Warn("worker terminated, removed from roster", "worker", s.id, "left", m.active)
}

// Resize re-partitions the image to width x height and reflows every
// worker's grid. Dimensions below MinResolution are raised to it.
//
// Resize is all-or-nothing: if the command cannot be delivered to some
// worker (it has exited, or ctx is done), the workers already switched are
// sent back to the previous resolution, the recorded size is left unchanged,
// and an error wrapping ErrResizeAborted is returned.
func (m *Manager) Resize(ctx context.Context, width, height int) error {
	if m.closed {
		return ErrClosed
	}
	width, height = clampResolution(width, height)
	count := len(m.slots)
	rows := bandRows(height, count)
	prevW, prevRows := m.width, bandRows(m.height, count)

	Logger().Info("resize", "from_width", m.width, "from_height", m.height, "width", width, "height", height)

	switched := make([]*slot, 0, m.active)
	for _, s := range m.slots {
		if s.retired {
			continue
		}
		if err := m.setResolution(ctx, s, width, rows); err != nil {
			Logger().Warn("unable to resize", "worker", s.id, "err", err)
			m.rollback(ctx, switched, prevW, prevRows)
			return fmt.Errorf("%w: worker %d: %w", ErrResizeAborted, s.id, err)
		}
		switched = append(switched, s)
	}

	m.width, m.height = width, height
	return nil
}

// setResolution delivers SetResolution to one worker with a fresh draw
// channel and resizes the cached buffer to match.
func (m *Manager) setResolution(ctx context.Context, s *slot, width, rows int) error {
	select {
	case <-s.done:
		return ErrWorkerGone
	default:
	}

	reply := make(chan *image.RGBA, drawCapacity)
	select {
	case s.control <- SetResolution{Width: width, Height: rows, Reply: reply}:
	case <-s.done:
		return ErrWorkerGone
	case <-ctx.Done():
		return ctx.Err()
	}

	s.draw = reply
	s.buf = framebuf.Resize(s.buf, width, rows, m.bg)
	return nil
}

func (m *Manager) rollback(ctx context.Context, switched []*slot, width, rows int) {
	ctx = context.WithoutCancel(ctx)
	for _, s := range switched {
		if err := m.setResolution(ctx, s, width, rows); err != nil {
			Logger().Warn("rollback failed", "worker", s.id, "err", err)
		}
	}
}

// Snapshots yields the current buffer of every active worker in band
// order. The sequence is finite and may be ranged over repeatedly.
func (m *Manager) Snapshots() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for _, s := range m.slots {
			if s.retired {
				continue
			}
			if !yield(Snapshot{ID: s.id, Span: s.span, Image: s.buf}) {
				return
			}
		}
	}
}

// Size returns the current image size in pixels.
func (m *Manager) Size() (width, height int) {
	return m.width, m.height
}

// Active returns the number of workers still on the roster.
func (m *Manager) Active() int {
	return m.active
}

// Bands returns the number of bands the image is partitioned into. It is
// fixed at creation; a lost worker leaves its band empty.
func (m *Manager) Bands() int {
	return len(m.slots)
}

// Metrics returns the manager's collectors.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Close stops all workers and waits for them to exit.
// Close is safe to call multiple times.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, s := range m.slots {
		s.closeControl()
	}
	m.wg.Wait()
}

// clampResolution raises each dimension to at least MinResolution.
func clampResolution(width, height int) (int, int) {
	if width < MinResolution || height < MinResolution {
		Logger().Warn("resolution too low, clamping", "width", width, "height", height, "min", MinResolution)
		width = max(width, MinResolution)
		height = max(height, MinResolution)
	}
	return width, height
}

// bandRows is the pixel height of one band.
func bandRows(height, count int) int {
	return max(height/count, 1)
}
