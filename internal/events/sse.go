package events

import (
	"sync"
	"sync/atomic"

	"github.com/kelindar/event"
)

// Forwarder merges bus events of several types into one buffered channel, the
// shape an SSE handler selects on. Events arriving while the channel is full
// are dropped and counted; the publisher never blocks on a slow client.
type Forwarder struct {
	ch      chan any
	dropped atomic.Uint64

	mu     sync.Mutex
	unsubs []func()
}

// NewForwarder creates a forwarder with room for size pending events.
func NewForwarder(size int) *Forwarder {
	return &Forwarder{ch: make(chan any, size)}
}

// Forward subscribes f to events of type T on bus.
func Forward[T Event](bus *Bus, f *Forwarder) {
	unsub := event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case f.ch <- e:
		default:
			f.dropped.Add(1)
		}
	})

	f.mu.Lock()
	f.unsubs = append(f.unsubs, unsub)
	f.mu.Unlock()
}

// C returns the channel events are delivered on.
func (f *Forwarder) C() <-chan any {
	return f.ch
}

// Dropped returns how many events were discarded because the channel was full.
func (f *Forwarder) Dropped() uint64 {
	return f.dropped.Load()
}

// Close removes every subscription. The channel is left open so a handler
// still selecting on it never reads a spurious nil.
func (f *Forwarder) Close() {
	f.mu.Lock()
	unsubs := f.unsubs
	f.unsubs = nil
	f.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}
