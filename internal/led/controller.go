package led

// Controller switches a single LED on and off.
// Implementations are not safe for concurrent use; callers serialise access
// through the launcher event loop.
type Controller interface {
	// On lights the LED.
	On() error

	// Off turns the LED off.
	Off() error

	// State returns the last state that was written successfully.
	State() bool

	// Device returns the control file path, or an empty string for no-op controllers.
	Device() string

	// Close releases the underlying device handle. Safe to call more than once.
	Close() error
}
