package led

import "log/slog"

// noop implements Controller for systems without a usable LED.
type noop struct {
	logger *slog.Logger
	on     bool
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

// On records the state change without touching hardware.
func (n *noop) On() error {
	n.on = true
	n.logger.Debug("LED control not available (no-op)", "enabled", true)
	return nil
}

// Off records the state change without touching hardware.
func (n *noop) Off() error {
	n.on = false
	n.logger.Debug("LED control not available (no-op)", "enabled", false)
	return nil
}

func (n *noop) State() bool { return n.on }

func (n *noop) Device() string { return "" }

func (n *noop) Close() error { return nil }
