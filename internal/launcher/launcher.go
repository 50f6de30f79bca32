// Package launcher is the top-level controller: it owns the active flag, the
// carousel, the LED and the startup animation, and reacts to pointer events
// and timer ticks. All methods must be called from the event loop goroutine.
package launcher

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/smazurov/launcher/internal/anim"
	"github.com/smazurov/launcher/internal/carousel"
	"github.com/smazurov/launcher/internal/display"
	"github.com/smazurov/launcher/internal/events"
	"github.com/smazurov/launcher/internal/input"
	"github.com/smazurov/launcher/internal/led"
	"github.com/smazurov/launcher/internal/metrics"
)

// State is the launcher's mode.
type State int

// Launcher states. Clicks alternate between them.
const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Shift causes, used in events and metrics.
const (
	CauseTimer     = "timer"
	CauseAnimation = "animation"
	CauseAPI       = "api"
)

// AnimationConfig describes the one-shot startup animation.
type AnimationConfig struct {
	Delay    time.Duration
	Duration time.Duration
	From     float64
	To       float64
	Easing   string
}

// Config holds launcher timing.
type Config struct {
	Step          int
	TickInterval  time.Duration
	FrameInterval time.Duration
	Animation     AnimationConfig
}

// DefaultConfig returns the stock timing: an 800 px step every 5 s and a
// 2 s eased settle after a 2 s delay.
func DefaultConfig() Config {
	return Config{
		Step:          800,
		TickInterval:  5 * time.Second,
		FrameInterval: time.Second / 30,
		Animation: AnimationConfig{
			Delay:    2 * time.Second,
			Duration: 2 * time.Second,
			Easing:   "cubic-out",
		},
	}
}

// Validate rejects timings the event loop cannot schedule.
func (c Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("tick interval must be positive, got %v", c.TickInterval)
	case c.FrameInterval <= 0:
		return fmt.Errorf("frame interval must be positive, got %v", c.FrameInterval)
	case c.Animation.Delay < 0 || c.Animation.Duration < 0:
		return fmt.Errorf("animation delay and duration must not be negative")
	}
	return nil
}

// Launcher reacts to input and drives the carousel.
type Launcher struct {
	cfg      Config
	carousel *carousel.Carousel
	led      led.Controller
	renderer *display.Renderer
	bus      *events.Bus
	logger   *slog.Logger

	state      State
	ledErr     error
	animOffset int
}

// New creates an idle launcher. renderer and bus may be nil.
func New(cfg Config, c *carousel.Carousel, ctrl led.Controller, renderer *display.Renderer, bus *events.Bus, logger *slog.Logger) *Launcher {
	return &Launcher{
		cfg:        cfg,
		carousel:   c,
		led:        ctrl,
		renderer:   renderer,
		bus:        bus,
		logger:     logger,
		animOffset: round(cfg.Animation.From),
	}
}

// State returns the current mode.
func (l *Launcher) State() State {
	return l.state
}

// HandlePointer toggles the LED and the active flag on every click. The
// state flips even when the LED write fails. Drag events are ignored.
func (l *Launcher) HandlePointer(ev input.PointerEvent) {
	metrics.RecordPointer(string(ev.Kind))
	l.publish(events.PointerEvent{
		Kind:      string(ev.Kind),
		X:         ev.X,
		Y:         ev.Y,
		Source:    ev.Source,
		Timestamp: timestamp(),
	})

	if ev.Kind != input.Click {
		return
	}

	if l.state == Idle {
		l.writeLED(true)
		l.state = Active
	} else {
		l.writeLED(false)
		l.state = Idle
	}

	metrics.SetActive(l.state == Active)
	l.logger.Info("Launcher toggled", "state", l.state, "source", ev.Source)
	l.publish(events.ActiveChangedEvent{
		Active:    l.state == Active,
		State:     l.state.String(),
		Timestamp: timestamp(),
	})
}

// SetLED drives the LED directly without changing the launcher state.
func (l *Launcher) SetLED(on bool) error {
	return l.writeLED(on)
}

// Tick advances the carousel by one step while active.
func (l *Launcher) Tick() {
	if l.state != Active {
		return
	}
	l.Shift(-l.cfg.Step, CauseTimer)
}

// Animate receives the startup animation's current value and shifts the
// carousel by the change since the previous value.
func (l *Launcher) Animate(value float64) {
	next := round(value)
	delta := next - l.animOffset
	l.animOffset = next
	l.Shift(delta, CauseAnimation)
}

// Shift moves the carousel, redraws and reports whether it wrapped to the origin.
func (l *Launcher) Shift(delta int, cause string) bool {
	if l.carousel.Len() == 0 {
		return false
	}

	reset := l.carousel.Shift(delta)
	start := l.carousel.Start()

	metrics.RecordShift(cause, start, reset)
	l.logger.Debug("Carousel shifted", "delta", delta, "start", start, "cause", cause, "reset", reset)
	l.publish(events.CarouselShiftedEvent{
		Delta:     delta,
		Start:     start,
		Cause:     cause,
		Timestamp: timestamp(),
	})
	if reset {
		l.logger.Info("Carousel wrapped to origin", "cause", cause)
		l.publish(events.CarouselResetEvent{Timestamp: timestamp()})
	}

	l.Render()
	return reset
}

// Render draws the current layout, if a renderer is attached.
func (l *Launcher) Render() {
	if l.renderer == nil {
		return
	}
	if err := l.renderer.Render(l.carousel.Layout()); err != nil {
		metrics.RecordRenderError()
		l.logger.Warn("Failed to write frame", "error", err)
	}
}

// StartupAnimation builds the settle animation: a delay, then the eased
// property whose values are fed to Animate.
func (l *Launcher) StartupAnimation() *anim.Sequence {
	a := l.cfg.Animation
	seq := &anim.Sequence{}
	seq.Add(&anim.Delay{Duration: a.Delay})
	seq.Add(&anim.Property{
		From:     a.From,
		To:       a.To,
		Duration: a.Duration,
		Easing:   anim.ByName(a.Easing),
		OnChange: l.Animate,
	})
	return seq
}

// Close releases the LED handle and the display sink.
func (l *Launcher) Close() error {
	err := l.led.Close()
	if l.renderer != nil {
		if rerr := l.renderer.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

func (l *Launcher) writeLED(on bool) error {
	var err error
	if on {
		err = l.led.On()
	} else {
		err = l.led.Off()
	}
	l.ledErr = err

	metrics.RecordLEDWrite(on, err)
	ev := events.LEDChangedEvent{On: on, Device: l.led.Device(), Timestamp: timestamp()}
	if err != nil {
		ev.Error = err.Error()
		l.logger.Warn("LED write failed", "on", on, "device", l.led.Device(), "error", err)
	}
	l.publish(ev)
	return err
}

func (l *Launcher) publish(ev events.Event) {
	if l.bus != nil {
		l.bus.Publish(ev)
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func round(v float64) int {
	return int(math.Round(v))
}
