//go:build !linux

package input

import (
	"context"
	"log/slog"
)

// Button is unavailable outside Linux.
type Button struct {
	cfg ButtonConfig
}

// NewButton creates a button source that always fails to start.
func NewButton(cfg ButtonConfig, _ *slog.Logger) *Button {
	return &Button{cfg: cfg}
}

// Name implements Source.
func (b *Button) Name() string {
	return b.cfg.name()
}

// Start implements Source.
func (b *Button) Start(context.Context, Handler) error {
	return ErrUnsupported
}

// Close implements Source.
func (b *Button) Close() error {
	return nil
}
