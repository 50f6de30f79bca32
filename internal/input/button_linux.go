//go:build linux

package input

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// Button reports presses of a GPIO push button as clicks.
type Button struct {
	cfg    ButtonConfig
	logger *slog.Logger

	mu   sync.Mutex
	line *gpiocdev.Line
}

// NewButton creates a button source for the given line.
func NewButton(cfg ButtonConfig, logger *slog.Logger) *Button {
	return &Button{cfg: cfg, logger: logger}
}

// Name implements Source.
func (b *Button) Name() string {
	return b.cfg.name()
}

// Start implements Source.
func (b *Button) Start(ctx context.Context, h Handler) error {
	name := b.Name()
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			b.logger.Debug("Button edge", "line", evt.Offset, "type", evt.Type, "seqno", evt.Seqno)
			h(PointerEvent{Kind: Click, Source: name})
		}),
	}

	if b.cfg.ActiveHigh {
		opts = append(opts, gpiocdev.WithPullDown, gpiocdev.WithRisingEdge)
	} else {
		opts = append(opts, gpiocdev.WithPullUp, gpiocdev.WithFallingEdge)
	}
	if b.cfg.Debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(b.cfg.Debounce))
	}

	line, err := gpiocdev.RequestLine(b.cfg.Chip, b.cfg.Line, opts...)
	if err != nil {
		return fmt.Errorf("request button line %s:%d: %w", b.cfg.Chip, b.cfg.Line, err)
	}

	b.mu.Lock()
	b.line = line
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.Close()
	}()

	b.logger.Info("Button input started", "chip", b.cfg.Chip, "line", b.cfg.Line, "debounce", b.cfg.Debounce)
	return nil
}

// Close releases the GPIO line, reverting it to a plain input.
func (b *Button) Close() error {
	b.mu.Lock()
	line := b.line
	b.line = nil
	b.mu.Unlock()

	if line == nil {
		return nil
	}

	if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
		b.logger.Debug("Failed to reconfigure button line", "error", err)
	}
	if err := line.Close(); err != nil {
		return fmt.Errorf("close button line: %w", err)
	}
	return nil
}
