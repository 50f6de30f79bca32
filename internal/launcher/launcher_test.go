package launcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/launcher/internal/carousel"
	"github.com/smazurov/launcher/internal/display"
	"github.com/smazurov/launcher/internal/events"
	"github.com/smazurov/launcher/internal/input"
	"github.com/smazurov/launcher/internal/led"
	"github.com/smazurov/launcher/internal/loop"
)

type fakeLED struct {
	mu     sync.Mutex
	on     bool
	writes []bool
	err    error
	closed int
}

func (f *fakeLED) write(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, on)
	if f.err != nil {
		return f.err
	}
	f.on = on
	return nil
}

func (f *fakeLED) On() error  { return f.write(true) }
func (f *fakeLED) Off() error { return f.write(false) }

func (f *fakeLED) State() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

func (f *fakeLED) Device() string { return "/sys/class/leds/test/brightness" }

func (f *fakeLED) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeLED) history() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.writes...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func loadedCarousel(width, height, count, panelWidth int) *carousel.Carousel {
	c := carousel.New(width, height)
	panels := make([]*carousel.Panel, count)
	for i := range panels {
		panels[i] = &carousel.Panel{Index: i, Width: panelWidth, Height: height}
	}
	c.Load(panels)
	return c
}

func newTestLauncher(ctrl led.Controller, cfg Config) (*Launcher, *display.Renderer, *events.Bus) {
	c := loadedCarousel(800, 480, 10, 800)
	r := display.NewRenderer(800, 480, nil, nil)
	bus := events.New()
	return New(cfg, c, ctrl, r, bus, testLogger()), r, bus
}

func click() input.PointerEvent {
	return input.PointerEvent{Kind: input.Click, X: 400, Y: 240, Source: "test"}
}

func TestClickTogglesLEDAndState(t *testing.T) {
	ctrl := &fakeLED{}
	l, _, _ := newTestLauncher(ctrl, DefaultConfig())

	wantStates := []State{Active, Idle, Active, Idle, Active}
	for i, want := range wantStates {
		l.HandlePointer(click())
		if l.State() != want {
			t.Fatalf("after click %d state = %v, want %v", i+1, l.State(), want)
		}
	}

	writes := ctrl.history()
	if len(writes) != len(wantStates) {
		t.Fatalf("LED writes = %v", writes)
	}
	for i, on := range writes {
		if on != (wantStates[i] == Active) {
			t.Errorf("write %d = %v, but state became %v", i, on, wantStates[i])
		}
	}
	if !ctrl.State() {
		t.Error("LED should be on after an odd number of clicks")
	}
}

func TestClickTogglesEvenWhenLEDFails(t *testing.T) {
	ctrl := &fakeLED{err: led.ErrUnavailable}
	l, _, _ := newTestLauncher(ctrl, DefaultConfig())

	l.HandlePointer(click())
	if l.State() != Active {
		t.Fatalf("state = %v, want active despite LED failure", l.State())
	}

	snap := l.Snapshot()
	if !errors.Is(snap.LED.Err, led.ErrUnavailable) {
		t.Errorf("snapshot LED error = %v", snap.LED.Err)
	}
	if snap.LED.On {
		t.Error("LED must not report on after a failed write")
	}

	l.HandlePointer(click())
	if l.State() != Idle {
		t.Errorf("state = %v, want idle", l.State())
	}
}

func TestDragEventsAreIgnored(t *testing.T) {
	ctrl := &fakeLED{}
	l, _, _ := newTestLauncher(ctrl, DefaultConfig())

	for _, kind := range []input.Kind{input.DragStart, input.Drag, input.DragStop} {
		l.HandlePointer(input.PointerEvent{Kind: kind, X: 10, Y: 10})
	}

	if l.State() != Idle {
		t.Errorf("state = %v, want idle", l.State())
	}
	if len(ctrl.history()) != 0 {
		t.Errorf("drag events wrote the LED: %v", ctrl.history())
	}
}

func TestTickOnlyWhileActive(t *testing.T) {
	l, r, _ := newTestLauncher(&fakeLED{}, DefaultConfig())

	l.Tick()
	if got := l.Snapshot().Carousel.Start; got != 0 {
		t.Fatalf("idle tick moved carousel to %d", got)
	}
	if r.Frames() != 0 {
		t.Errorf("idle tick rendered %d frames", r.Frames())
	}

	l.HandlePointer(click())
	l.Tick()
	if got := l.Snapshot().Carousel.Start; got != -800 {
		t.Errorf("start after active tick = %d, want -800", got)
	}
	if r.Frames() != 1 {
		t.Errorf("frames = %d, want 1", r.Frames())
	}
}

func TestAutoScrollWrapsOnTenthTick(t *testing.T) {
	l, _, bus := newTestLauncher(&fakeLED{}, DefaultConfig())

	resets := make(chan events.CarouselResetEvent, 1)
	unsub := bus.Subscribe(func(e events.CarouselResetEvent) { resets <- e })
	defer unsub()

	l.HandlePointer(click())
	for i := 1; i <= 9; i++ {
		l.Tick()
		if got := l.Snapshot().Carousel.Start; got != -800*i {
			t.Fatalf("tick %d: start = %d, want %d", i, got, -800*i)
		}
	}

	l.Tick()
	snap := l.Snapshot()
	if snap.Carousel.Start != 0 {
		t.Errorf("start after 10th tick = %d, want 0", snap.Carousel.Start)
	}
	for _, p := range snap.Carousel.Panels {
		if p.X != 0 {
			t.Errorf("panel %d at %d after reset", p.Index, p.X)
		}
	}

	select {
	case <-resets:
	case <-time.After(time.Second):
		t.Error("no CarouselResetEvent published")
	}
}

func TestAnimateFeedsDeltas(t *testing.T) {
	l, _, _ := newTestLauncher(&fakeLED{}, DefaultConfig())

	l.Animate(-100.4)
	if got := l.Snapshot().Carousel.Start; got != -100 {
		t.Errorf("start = %d, want -100", got)
	}
	l.Animate(-400)
	if got := l.Snapshot().Carousel.Start; got != -400 {
		t.Errorf("start = %d, want -400", got)
	}
}

func TestStartupAnimation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Animation.To = -800
	l, _, _ := newTestLauncher(&fakeLED{}, cfg)

	seq := l.StartupAnimation()
	t0 := time.Now()

	if !seq.Advance(t0) {
		t.Fatal("sequence finished immediately")
	}
	seq.Advance(t0.Add(1500 * time.Millisecond))
	if got := l.Snapshot().Carousel.Start; got != 0 {
		t.Errorf("start during delay = %d, want 0", got)
	}

	seq.Advance(t0.Add(2 * time.Second))
	seq.Advance(t0.Add(3 * time.Second))
	mid := l.Snapshot().Carousel.Start
	if mid >= 0 || mid <= -800 {
		t.Errorf("start halfway = %d, want strictly between -800 and 0", mid)
	}

	if seq.Advance(t0.Add(4 * time.Second)) {
		t.Error("sequence should finish after delay + duration")
	}
	if got := l.Snapshot().Carousel.Start; got != -800 {
		t.Errorf("start after animation = %d, want -800", got)
	}
}

func TestSetLEDKeepsState(t *testing.T) {
	ctrl := &fakeLED{}
	l, _, _ := newTestLauncher(ctrl, DefaultConfig())

	if err := l.SetLED(true); err != nil {
		t.Fatal(err)
	}
	if l.State() != Idle {
		t.Errorf("SetLED changed state to %v", l.State())
	}
	if !ctrl.State() {
		t.Error("LED not on")
	}
}

func TestEventsPublished(t *testing.T) {
	l, _, bus := newTestLauncher(&fakeLED{}, DefaultConfig())

	active := make(chan events.ActiveChangedEvent, 1)
	leds := make(chan events.LEDChangedEvent, 1)
	defer bus.Subscribe(func(e events.ActiveChangedEvent) { active <- e })()
	defer bus.Subscribe(func(e events.LEDChangedEvent) { leds <- e })()

	l.HandlePointer(click())

	select {
	case e := <-active:
		if !e.Active || e.State != "active" {
			t.Errorf("ActiveChangedEvent = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no ActiveChangedEvent")
	}

	select {
	case e := <-leds:
		if !e.On || e.Error != "" || e.Device == "" {
			t.Errorf("LEDChangedEvent = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no LEDChangedEvent")
	}
}

func TestEmptyCarouselShiftIsNoop(t *testing.T) {
	r := display.NewRenderer(800, 480, nil, nil)
	l := New(DefaultConfig(), carousel.New(800, 480), &fakeLED{}, r, nil, testLogger())

	l.HandlePointer(click())
	l.Tick()

	if r.Frames() != 0 {
		t.Errorf("empty carousel rendered %d frames", r.Frames())
	}
	if l.Snapshot().Carousel.Start != 0 {
		t.Error("empty carousel start moved")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.TickInterval = 0
	if bad.Validate() == nil {
		t.Error("zero tick interval accepted")
	}

	bad = DefaultConfig()
	bad.Animation.Delay = -time.Second
	if bad.Validate() == nil {
		t.Error("negative delay accepted")
	}
}

type fakeSource struct {
	started chan struct{}
	closed  bool
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Start(_ context.Context, h input.Handler) error {
	go func() {
		h(input.PointerEvent{Kind: input.Click, Source: "fake"})
		close(f.started)
	}()
	return nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

type brokenSource struct{}

func (brokenSource) Name() string                                { return "broken" }
func (brokenSource) Start(context.Context, input.Handler) error { return input.ErrUnsupported }
func (brokenSource) Close() error                                { return nil }

func TestServiceRun(t *testing.T) {
	ctrl := &fakeLED{}
	cfg := DefaultConfig()
	cfg.TickInterval = time.Hour
	cfg.FrameInterval = 5 * time.Millisecond
	cfg.Animation.Delay = 0
	cfg.Animation.Duration = 20 * time.Millisecond

	l, r, _ := newTestLauncher(ctrl, cfg)
	lp := loop.New(testLogger())
	src := &fakeSource{started: make(chan struct{})}
	svc := NewService(l, lp, []input.Source{brokenSource{}, src}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(finished)
	}()

	<-src.started
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, err := svc.Snapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if snap.State == Active {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("click from input source never reached the launcher")
		}
		time.Sleep(5 * time.Millisecond)
	}

	snap, err := svc.Click(ctx, "api")
	if err != nil || snap.State != Idle {
		t.Fatalf("Click() = %v, %v", snap.State, err)
	}

	snap, err = svc.Shift(ctx, -800)
	if err != nil || snap.Carousel.Start != -800 {
		t.Fatalf("Shift() start = %d, err = %v", snap.Carousel.Start, err)
	}

	if _, err := svc.SetLED(ctx, true); err != nil {
		t.Fatalf("SetLED() = %v", err)
	}
	if svc.Frame() == nil || r.Frames() == 0 {
		t.Error("no frame rendered")
	}

	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if ctrl.closed != 1 {
		t.Errorf("LED closed %d times, want 1", ctrl.closed)
	}
	if !src.closed {
		t.Error("input source not closed")
	}
	if _, err := svc.Snapshot(context.Background()); !errors.Is(err, loop.ErrStopped) {
		t.Errorf("Snapshot after stop = %v, want ErrStopped", err)
	}
}

func TestServiceSetLEDReportsWriteError(t *testing.T) {
	ctrl := &fakeLED{err: errors.New("write failed")}
	l, _, _ := newTestLauncher(ctrl, DefaultConfig())
	lp := loop.New(testLogger())
	svc := NewService(l, lp, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lp.Run(ctx)

	snap, err := svc.SetLED(ctx, true)
	if err == nil {
		t.Fatal("expected LED write error")
	}
	if snap.LED.Err == nil {
		t.Error("snapshot should carry the LED error")
	}
}

func TestServiceTimeoutWhileLoopBusy(t *testing.T) {
	ctrl := &fakeLED{}
	l, _, _ := newTestLauncher(ctrl, DefaultConfig())
	lp := loop.New(testLogger())
	svc := NewService(l, lp, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lp.Run(ctx)

	release := make(chan struct{})
	lp.Post(func() { <-release })

	shortCtx, shortCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer shortCancel()
	snap, err := svc.Click(shortCtx, "api")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Click() error = %v, want DeadlineExceeded", err)
	}
	if snap.State != Idle {
		t.Errorf("timed out Click() returned state %v, want zero snapshot", snap.State)
	}

	// The abandoned click still runs once the loop is free.
	close(release)
	snap, err = svc.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.State != Active {
		t.Errorf("State = %v, want Active after queued click ran", snap.State)
	}
}
