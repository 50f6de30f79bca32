// Package mqtt publishes launcher state to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"time"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "launcher"

// Publisher publishes launcher state.
type Publisher interface {
	// PublishState sends a retained state snapshot. Failures must not crash the process.
	PublishState(state State) error

	// Close disconnects from the broker.
	Close() error
}

// State is the retained launcher status document.
type State struct {
	Timestamp time.Time
	Active    bool
	LED       bool
	LEDError  string
	Resets    int
}

// Payload is the JSON form of State.
type Payload struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
	LED       string `json:"led"`
	LEDError  string `json:"led_error,omitempty"`
	Resets    int    `json:"resets"`
}

// FormatPayload creates the JSON payload for a state snapshot.
func FormatPayload(state State) ([]byte, error) {
	payload := Payload{
		Timestamp: state.Timestamp.UTC().Format(time.RFC3339),
		State:     "idle",
		LED:       "off",
		LEDError:  state.LEDError,
		Resets:    state.Resets,
	}
	if state.Active {
		payload.State = "active"
	}
	if state.LED {
		payload.LED = "on"
	}
	return json.Marshal(payload)
}

// StateTopic returns the retained state topic under prefix.
func StateTopic(prefix string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "/state"
}

// StatusTopic returns the online/offline availability topic under prefix.
func StatusTopic(prefix string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "/status"
}
