package mqtt

import (
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/launcher/internal/events"
)

// Bridge mirrors launcher events from the bus into retained MQTT state.
type Bridge struct {
	publisher Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	state State

	unsubscribers []func()
}

// NewBridge creates a bridge publishing through p.
func NewBridge(p Publisher, logger *slog.Logger) *Bridge {
	return &Bridge{publisher: p, logger: logger}
}

// Start subscribes to the bus and publishes the initial state.
func (b *Bridge) Start(bus *events.Bus) {
	b.unsubscribers = []func(){
		bus.Subscribe(func(e events.ActiveChangedEvent) {
			b.update(func(s *State) { s.Active = e.Active })
		}),
		bus.Subscribe(func(e events.LEDChangedEvent) {
			b.update(func(s *State) {
				if e.Error == "" {
					s.LED = e.On
				}
				s.LEDError = e.Error
			})
		}),
		bus.Subscribe(func(_ events.CarouselResetEvent) {
			b.update(func(s *State) { s.Resets++ })
		}),
	}

	b.update(func(*State) {})
	b.logger.Info("MQTT bridge started")
}

// Stop unsubscribes from the bus and closes the publisher.
func (b *Bridge) Stop() {
	for _, unsub := range b.unsubscribers {
		unsub()
	}
	if err := b.publisher.Close(); err != nil {
		b.logger.Warn("Failed to close MQTT publisher", "error", err)
	}
	b.logger.Info("MQTT bridge stopped")
}

func (b *Bridge) update(mutate func(*State)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mutate(&b.state)
	b.state.Timestamp = time.Now()

	if err := b.publisher.PublishState(b.state); err != nil {
		b.logger.Warn("Failed to publish launcher state", "error", err)
	}
}
