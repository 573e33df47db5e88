package equart

import "image"

// Mailbox capacities.
const (
	// controlCapacity bounds the manager-to-worker control channel. A full
	// channel means the previous command has not been drained yet.
	controlCapacity = 1

	// drawCapacity bounds the worker-to-manager draw channel.
	drawCapacity = 2
)

// Command is a message sent by the Manager to one worker. Each command is
// consumed exactly once.
type Command interface {
	isCommand()
}

// RequestSnapshot asks a worker for a copy of its current frame buffer.
type RequestSnapshot struct{}

// SetResolution asks a worker to reflow to Width x Height cells and to
// deliver all future snapshots on Reply.
type SetResolution struct {
	Width  int
	Height int
	Reply  chan<- *image.RGBA
}

func (RequestSnapshot) isCommand() {}
func (SetResolution) isCommand()   {}
