package launcher

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/smazurov/launcher/internal/input"
	"github.com/smazurov/launcher/internal/loop"
)

// Service runs a Launcher on an event loop and exposes it to other goroutines.
type Service struct {
	launcher *Launcher
	loop     *loop.Loop
	sources  []input.Source
	logger   *slog.Logger
}

// NewService binds l to lp. Pointer events from sources are posted to the loop.
func NewService(l *Launcher, lp *loop.Loop, sources []input.Source, logger *slog.Logger) *Service {
	return &Service{
		launcher: l,
		loop:     lp,
		sources:  sources,
		logger:   logger,
	}
}

// Run starts input sources, the auto-scroll timer and the startup animation,
// then runs the loop until ctx is cancelled. The launcher is closed on return.
func (s *Service) Run(ctx context.Context) {
	cfg := s.launcher.cfg

	for _, src := range s.sources {
		if err := src.Start(ctx, s.post); err != nil {
			s.logger.Warn("Input source disabled", "source", src.Name(), "error", err)
			continue
		}
		s.logger.Info("Input source started", "source", src.Name())
	}

	s.loop.Post(s.launcher.Render)

	stopTick := s.loop.Every(cfg.TickInterval, s.launcher.Tick)
	defer stopTick()

	seq := s.launcher.StartupAnimation()
	s.loop.Post(func() { seq.Advance(time.Now()) })
	var stopFrames func()
	stopFrames = s.loop.Every(cfg.FrameInterval, func() {
		if !seq.Advance(time.Now()) {
			stopFrames()
			s.logger.Debug("Startup animation finished")
		}
	})
	defer stopFrames()

	s.logger.Info("Launcher running", "tick", cfg.TickInterval, "step", cfg.Step)
	s.loop.Run(ctx)

	for _, src := range s.sources {
		if err := src.Close(); err != nil {
			s.logger.Warn("Failed to close input source", "source", src.Name(), "error", err)
		}
	}
	if err := s.launcher.Close(); err != nil {
		s.logger.Warn("Failed to close launcher", "error", err)
	}
	s.logger.Info("Launcher stopped")
}

// Click injects a click, as if a pointer had been pressed.
func (s *Service) Click(ctx context.Context, source string) (Snapshot, error) {
	return s.do(ctx, func() error {
		s.launcher.HandlePointer(input.PointerEvent{Kind: input.Click, Source: source})
		return nil
	})
}

// Shift moves the carousel by delta.
func (s *Service) Shift(ctx context.Context, delta int) (Snapshot, error) {
	return s.do(ctx, func() error {
		s.launcher.Shift(delta, CauseAPI)
		return nil
	})
}

// SetLED writes the LED without toggling the launcher state. A failed write
// is returned alongside the snapshot.
func (s *Service) SetLED(ctx context.Context, on bool) (Snapshot, error) {
	return s.do(ctx, func() error { return s.launcher.SetLED(on) })
}

// Snapshot returns the current state.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.do(ctx, func() error { return nil })
}

// Frame returns the most recently rendered frame, or nil.
// It is safe to call from any goroutine.
func (s *Service) Frame() *image.RGBA {
	if s.launcher.renderer == nil {
		return nil
	}
	return s.launcher.renderer.Frame()
}

type result struct {
	snap Snapshot
	err  error
}

// do runs fn on the loop. The result is only read once the loop reports that
// fn has completed; a caller that times out leaves it in the buffered channel.
func (s *Service) do(ctx context.Context, fn func() error) (Snapshot, error) {
	results := make(chan result, 1)
	err := s.loop.Do(ctx, func() {
		fnErr := fn()
		results <- result{snap: s.launcher.Snapshot(), err: fnErr}
	})
	if err != nil {
		return Snapshot{}, err
	}
	r := <-results
	return r.snap, r.err
}

func (s *Service) post(ev input.PointerEvent) {
	if !s.loop.Post(func() { s.launcher.HandlePointer(ev) }) {
		s.logger.Debug("Dropping pointer event, loop stopped", "kind", ev.Kind)
	}
}
