// Package equart renders implicit curves f(x, y) = 0 progressively on a
// pool of concurrent workers.
//
// # Overview
//
// The domain is cut into horizontal bands, one per worker. Each worker owns
// a grid of fixels (see package fixel) over its band, refines it depth by
// depth with more field samples, and paints one scanline per loop iteration
// into a private frame buffer. The Manager never touches worker state: it
// talks to workers only through two small mailboxes per worker, and every
// exchange on them is a non-blocking attempt.
//
// # Quick Start
//
//	m := equart.NewManager(800, 600, 0, equart.NewSliceFactory())
//	defer m.Close()
//
//	for range time.Tick(time.Second / 30) {
//	    m.RequestUpdate()
//	    m.CollectUpdates()
//	    for snap := range m.Snapshots() {
//	        // draw snap.Image at y = snap.Span * height
//	    }
//	}
//
// # Architecture
//
//   - Manager: roster of workers, snapshot requests and collection, resize
//   - Worker: per-band goroutine driven by a Scheduler
//   - Tile: the drawing state a worker renders from (Slice in production)
//   - Scheduler: scanline cursor and refinement depth
//
// # Progressive Refinement
//
// A worker starts at DefaultStartDepth. Every time its scanline cursor wraps
// to the top of the band the depth goes up by one, until DefaultMaxDepth.
// A cell at depth d holds up to d*d samples of its own. Cells that have
// found a root or a domain error stop sampling.
//
// # Resizing
//
// Resize sends each worker a new resolution and a new draw channel. The
// worker moves every sample of its old grid into the cell of the new grid
// that contains it. A cell keeps the depth of the samples it received, so
// only cells left empty are sampled again. The previous frame stays visible
// while the new grid fills in.
//
// # Coordinate System
//
// Band 0 covers the bottom of the domain (lowest Y) and is drawn at the top
// of the composited image, at Span 0.
package equart
