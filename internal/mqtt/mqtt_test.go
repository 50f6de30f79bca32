package mqtt

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/smazurov/launcher/internal/events"
)

func TestFormatPayload(t *testing.T) {
	ts := time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC)

	data, err := FormatPayload(State{Timestamp: ts, Active: true, LED: false, LEDError: "led device unavailable", Resets: 2})
	if err != nil {
		t.Fatalf("FormatPayload() error: %v", err)
	}

	var got Payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want := Payload{
		Timestamp: "2025-01-27T10:30:00Z",
		State:     "active",
		LED:       "off",
		LEDError:  "led device unavailable",
		Resets:    2,
	}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestTopics(t *testing.T) {
	if got := StateTopic(""); got != "launcher/state" {
		t.Errorf("StateTopic(\"\") = %q", got)
	}
	if got := StatusTopic("lab/kiosk"); got != "lab/kiosk/status" {
		t.Errorf("StatusTopic() = %q", got)
	}
}

func waitForStates(t *testing.T, f *FakePublisher, n int) []State {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if states := f.Published(); len(states) >= n {
			return states
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d published states, got %d", n, len(f.Published()))
	return nil
}

func TestBridge(t *testing.T) {
	bus := events.New()
	pub := NewFakePublisher()
	bridge := NewBridge(pub, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	bridge.Start(bus)
	waitForStates(t, pub, 1)

	bus.Publish(events.ActiveChangedEvent{Active: true, State: "active"})
	states := waitForStates(t, pub, 2)
	if !states[1].Active {
		t.Errorf("state after ActiveChangedEvent = %+v", states[1])
	}

	bus.Publish(events.LEDChangedEvent{On: true, Error: "led device unavailable"})
	states = waitForStates(t, pub, 3)
	if states[2].LED || states[2].LEDError == "" {
		t.Errorf("failed LED write should keep LED off and record error: %+v", states[2])
	}

	bus.Publish(events.CarouselResetEvent{})
	states = waitForStates(t, pub, 4)
	if states[3].Resets != 1 {
		t.Errorf("Resets = %d, want 1", states[3].Resets)
	}

	bridge.Stop()
	if !pub.Closed {
		t.Error("Stop() did not close the publisher")
	}
}

func TestBridge_PublishErrorIsNotFatal(_ *testing.T) {
	pub := NewFakePublisher()
	pub.PublishError = errors.New("broker down")

	bridge := NewBridge(pub, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	bridge.Start(events.New())
	bridge.Stop()
}
