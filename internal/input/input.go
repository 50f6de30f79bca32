// Package input turns touchscreen and button activity into pointer events.
package input

import "context"

// Kind identifies a pointer event.
type Kind string

// Pointer event kinds.
const (
	Click     Kind = "click"
	DragStart Kind = "drag_start"
	Drag      Kind = "drag"
	DragStop  Kind = "drag_stop"
)

// PointerEvent is a single pointer action in display coordinates.
type PointerEvent struct {
	Kind   Kind
	X      int
	Y      int
	Source string
}

// Handler receives pointer events. It is called from the source's own goroutine.
type Handler func(PointerEvent)

// Source produces pointer events until its context is cancelled or it is closed.
type Source interface {
	// Name identifies the source in logs and events.
	Name() string
	// Start begins delivering events to h. It returns once the source is running.
	Start(ctx context.Context, h Handler) error
	// Close releases the underlying device.
	Close() error
}
