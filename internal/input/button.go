package input

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupported is returned by sources that need hardware this platform lacks.
var ErrUnsupported = errors.New("input source not supported on this platform")

// ButtonConfig describes a push button wired to a GPIO line.
type ButtonConfig struct {
	Chip     string
	Line     int
	Debounce time.Duration
	// ActiveHigh selects a rising edge with pull-down bias instead of the
	// default falling edge with pull-up bias.
	ActiveHigh bool
}

func (c ButtonConfig) name() string {
	return fmt.Sprintf("gpio:%s:%d", c.Chip, c.Line)
}
