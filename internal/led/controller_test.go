package led

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newBrightnessFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brightness")
	if err := os.WriteFile(path, []byte("0"), 0644); err != nil {
		t.Fatalf("Failed to create brightness file: %v", err)
	}
	return path
}

func readBrightness(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read brightness file: %v", err)
	}
	return string(data)
}

func TestSwitch_OnOff(t *testing.T) {
	path := newBrightnessFile(t)
	sw := Open(path)
	defer sw.Close()

	if err := sw.Err(); err != nil {
		t.Fatalf("Open() latched error: %v", err)
	}

	if err := sw.On(); err != nil {
		t.Fatalf("On() returned error: %v", err)
	}
	if got := readBrightness(t, path); got != "1" {
		t.Errorf("brightness after On() = %q, want %q", got, "1")
	}
	if !sw.State() {
		t.Error("State() = false after On()")
	}

	if err := sw.Off(); err != nil {
		t.Fatalf("Off() returned error: %v", err)
	}
	if got := readBrightness(t, path); got != "0" {
		t.Errorf("brightness after Off() = %q, want %q", got, "0")
	}
	if sw.State() {
		t.Error("State() = true after Off()")
	}
}

func TestSwitch_LatchedOpenFailure(t *testing.T) {
	sw := Open(filepath.Join(t.TempDir(), "missing", "brightness"))

	if sw.Err() == nil {
		t.Fatal("Open() of missing device should latch an error")
	}

	for i := 0; i < 3; i++ {
		if err := sw.On(); !errors.Is(err, ErrUnavailable) {
			t.Errorf("On() #%d = %v, want ErrUnavailable", i, err)
		}
		if err := sw.Off(); !errors.Is(err, ErrUnavailable) {
			t.Errorf("Off() #%d = %v, want ErrUnavailable", i, err)
		}
	}

	if sw.State() {
		t.Error("State() should stay false when nothing was written")
	}

	if err := sw.Close(); err != nil {
		t.Errorf("Close() of invalid switch returned error: %v", err)
	}
}

func TestSwitch_CloseTwice(t *testing.T) {
	sw := Open(newBrightnessFile(t))

	if err := sw.Close(); err != nil {
		t.Fatalf("first Close() returned error: %v", err)
	}
	if err := sw.Close(); err != nil {
		t.Errorf("second Close() returned error: %v", err)
	}
	if err := sw.On(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("On() after Close() = %v, want ErrUnavailable", err)
	}
}

func TestNoopController(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctrl := newNoop(logger)

	if err := ctrl.On(); err != nil {
		t.Errorf("On() returned error: %v", err)
	}
	if !ctrl.State() {
		t.Error("State() = false after On()")
	}
	if err := ctrl.Off(); err != nil {
		t.Errorf("Off() returned error: %v", err)
	}
	if ctrl.Device() != "" {
		t.Errorf("Device() = %q, want empty", ctrl.Device())
	}
}
