package mqtt

import "sync"

// FakePublisher records published state for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// States contains all snapshots that were published.
	States []State

	// PublishError, if set, will be returned by PublishState.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishState records the snapshot.
func (f *FakePublisher) PublishState(state State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}
	f.States = append(f.States, state)
	return nil
}

// Published returns a copy of the recorded snapshots.
func (f *FakePublisher) Published() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]State(nil), f.States...)
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
