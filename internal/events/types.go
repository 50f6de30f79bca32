package events

// Event type constants for kelindar/event.
const (
	TypePointer uint32 = iota + 1
	TypeActiveChanged
	TypeLEDChanged
	TypeCarouselShifted
	TypeCarouselReset
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PointerEvent is published for every pointer event the launcher handles.
type PointerEvent struct {
	Kind      string `json:"kind" example:"click" doc:"Pointer event kind: click, drag_start, drag, drag_stop"`
	X         int    `json:"x" example:"400" doc:"Horizontal display coordinate"`
	Y         int    `json:"y" example:"240" doc:"Vertical display coordinate"`
	Source    string `json:"source" example:"evdev:/dev/input/event0" doc:"Input source that produced the event"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PointerEvent.
func (e PointerEvent) Type() uint32 { return TypePointer }

// ActiveChangedEvent is published when a click toggles the launcher between idle and active.
type ActiveChangedEvent struct {
	Active    bool   `json:"active" example:"true" doc:"Whether auto-scroll is active"`
	State     string `json:"state" example:"active" doc:"Launcher state: idle or active"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ActiveChangedEvent.
func (e ActiveChangedEvent) Type() uint32 { return TypeActiveChanged }

// LEDChangedEvent is published after every LED write attempt.
type LEDChangedEvent struct {
	On        bool   `json:"on" example:"true" doc:"Requested LED state"`
	Device    string `json:"device" example:"/sys/class/leds/red/brightness" doc:"LED control file"`
	Error     string `json:"error,omitempty" example:"led device unavailable" doc:"Write error, empty on success"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LEDChangedEvent.
func (e LEDChangedEvent) Type() uint32 { return TypeLEDChanged }

// CarouselShiftedEvent is published after every carousel shift.
type CarouselShiftedEvent struct {
	Delta     int    `json:"delta" example:"-800" doc:"Horizontal shift applied"`
	Start     int    `json:"start" example:"-1600" doc:"Cumulative scroll offset after the shift"`
	Cause     string `json:"cause" example:"timer" doc:"What requested the shift: timer, animation, api"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CarouselShiftedEvent.
func (e CarouselShiftedEvent) Type() uint32 { return TypeCarouselShifted }

// CarouselResetEvent is published when the carousel wraps back to the origin.
type CarouselResetEvent struct {
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CarouselResetEvent.
func (e CarouselResetEvent) Type() uint32 { return TypeCarouselReset }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"launcher" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
