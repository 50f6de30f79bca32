package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
// Subscribers are invoked asynchronously by the dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case PointerEvent:
		event.Publish(b.dispatcher, e)
	case ActiveChangedEvent:
		event.Publish(b.dispatcher, e)
	case LEDChangedEvent:
		event.Publish(b.dispatcher, e)
	case CarouselShiftedEvent:
		event.Publish(b.dispatcher, e)
	case CarouselResetEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a typed handler; the handler's parameter type selects
// the events it receives. Unknown handler types get a no-op unsubscribe.
// Usage: unsub := bus.Subscribe(func(e ActiveChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(PointerEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ActiveChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LEDChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CarouselShiftedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CarouselResetEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
