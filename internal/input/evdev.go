package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

// Linux input event codes (linux/input-event-codes.h).
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03

	synReport = 0x00

	btnLeft  = 0x110
	btnTouch = 0x14a

	relX = 0x00
	relY = 0x01

	absX      = 0x00
	absY      = 0x01
	absMTPosX = 0x35
	absMTPosY = 0x36
)

// eventSize is sizeof(struct input_event): a timeval followed by
// type, code and value.
var eventSize = int(unsafe.Sizeof(syscall.Timeval{})) + 8

// rawEvent is one decoded struct input_event without its timestamp.
type rawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// decodeEvent decodes a native-endian input_event record.
func decodeEvent(buf []byte) rawEvent {
	off := len(buf) - 8
	return rawEvent{
		Type:  binary.NativeEndian.Uint16(buf[off:]),
		Code:  binary.NativeEndian.Uint16(buf[off+2:]),
		Value: int32(binary.NativeEndian.Uint32(buf[off+4:])),
	}
}

// tracker folds raw evdev records into pointer events. Records between two
// SYN_REPORTs form one frame.
type tracker struct {
	x, y     int
	pressed  bool
	dragging bool

	// pending frame state
	down  bool
	up    bool
	moved bool
}

func (t *tracker) feed(ev rawEvent) []PointerEvent {
	switch ev.Type {
	case evKey:
		if ev.Code == btnTouch || ev.Code == btnLeft {
			switch ev.Value {
			case 1:
				t.down = true
			case 0:
				t.up = true
			}
		}
	case evAbs:
		switch ev.Code {
		case absX, absMTPosX:
			t.x = int(ev.Value)
			t.moved = true
		case absY, absMTPosY:
			t.y = int(ev.Value)
			t.moved = true
		}
	case evRel:
		switch ev.Code {
		case relX:
			t.x += int(ev.Value)
			t.moved = true
		case relY:
			t.y += int(ev.Value)
			t.moved = true
		}
	case evSyn:
		if ev.Code == synReport {
			return t.flush()
		}
	}
	return nil
}

func (t *tracker) flush() []PointerEvent {
	var out []PointerEvent

	switch {
	case t.down && !t.pressed:
		t.pressed = true
		out = append(out, PointerEvent{Kind: Click, X: t.x, Y: t.y})
	case t.pressed && t.moved && !t.up:
		if !t.dragging {
			t.dragging = true
			out = append(out, PointerEvent{Kind: DragStart, X: t.x, Y: t.y})
		} else {
			out = append(out, PointerEvent{Kind: Drag, X: t.x, Y: t.y})
		}
	}

	if t.up {
		if t.dragging {
			out = append(out, PointerEvent{Kind: DragStop, X: t.x, Y: t.y})
		}
		t.pressed = false
		t.dragging = false
	}

	t.down, t.up, t.moved = false, false, false
	return out
}

// Evdev reads pointer events from a Linux input device such as a touchscreen.
type Evdev struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	file   *os.File
	closed bool
	wg     sync.WaitGroup
}

// NewEvdev creates a source for the input device at path.
func NewEvdev(path string, logger *slog.Logger) *Evdev {
	return &Evdev{path: path, logger: logger}
}

// Name implements Source.
func (e *Evdev) Name() string {
	return "evdev:" + e.path
}

// Start implements Source.
func (e *Evdev) Start(ctx context.Context, h Handler) error {
	f, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("open input device %s: %w", e.path, err)
	}

	e.mu.Lock()
	e.file = f
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.read(f, h)
	}()

	go func() {
		<-ctx.Done()
		e.Close()
	}()

	e.logger.Info("Input device opened", "device", e.path)
	return nil
}

func (e *Evdev) read(r io.Reader, h Handler) {
	var t tracker
	buf := make([]byte, eventSize)
	name := e.Name()

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				e.logger.Warn("Input device read failed", "device", e.path, "error", err)
			}
			return
		}

		for _, ev := range t.feed(decodeEvent(buf)) {
			ev.Source = name
			h(ev)
		}
	}
}

// Close implements Source.
func (e *Evdev) Close() error {
	e.mu.Lock()
	if e.closed || e.file == nil {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	f := e.file
	e.mu.Unlock()

	err := f.Close()
	e.wg.Wait()
	return err
}
