package equart

// Refinement depth bounds.
const (
	// DefaultStartDepth is the depth a worker starts from. The first frame
	// already refines to DefaultStartDepth+1.
	DefaultStartDepth = 4

	// DefaultMaxDepth is the depth at which the image is considered converged.
	DefaultMaxDepth = 16
)

// Scheduler drives progressive refinement for one worker.
//
// It walks a scanline cursor over the frame. Each time the cursor wraps to
// line 0 a new frame begins and, unless the maximum has been reached, the
// target depth is raised by exactly one. The depth never decreases.
//
// Thread safety: Scheduler is NOT thread-safe; it belongs to one worker.
type Scheduler struct {
	line     int
	depth    int
	maxDepth int

	// settled is true once a full frame has been drawn at maxDepth since
	// the last Invalidate.
	settled bool

	// stale forces a refinement pass at the current depth on the next
	// frame, for cells that arrived empty from a reflow.
	stale bool
}

// NewScheduler returns a scheduler starting at depth start and capped at limit.
func NewScheduler(start, limit int) *Scheduler {
	limit = max(limit, 0)
	start = min(max(start, 0), limit)
	return &Scheduler{depth: start, maxDepth: limit}
}

// Step advances the cursor by one scanline of a frame with the given
// number of rows. It returns the line to draw, the current depth, and
// whether a refinement pass to that depth must run before drawing.
func (s *Scheduler) Step(rows int) (line, depth int, refine bool) {
	if rows <= 0 {
		return 0, s.depth, false
	}
	if s.line >= rows {
		s.line = 0
	}

	line = s.line
	if line == 0 {
		if s.depth < s.maxDepth {
			s.depth++
			refine = true
		} else if s.stale {
			refine = true
		}
		s.stale = false
	}

	s.line++
	if s.line >= rows {
		s.line = 0
		if s.depth >= s.maxDepth {
			s.settled = true
		}
	}
	return line, s.depth, refine
}

// Invalidate marks the frame as changed after the grid was rebuilt. The
// cursor keeps its place; the image is no longer considered settled, and
// the next frame refines at the current depth even when the maximum has
// been reached, so cells that arrived empty get sampled.
func (s *Scheduler) Invalidate() {
	s.settled = false
	s.stale = true
}

// Idle reports whether the image is converged and fully drawn, so the
// worker may wait for commands instead of redrawing.
func (s *Scheduler) Idle() bool {
	return s.settled
}

// Depth returns the current refinement depth.
func (s *Scheduler) Depth() int {
	return s.depth
}

// MaxDepth returns the depth cap.
func (s *Scheduler) MaxDepth() int {
	return s.maxDepth
}

// Line returns the next scanline to be drawn.
func (s *Scheduler) Line() int {
	return s.line
}
