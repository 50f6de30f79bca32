package led

import (
	"errors"
	"fmt"
	"os"
)

// DefaultDevice is the brightness file of the red user LED on Microchip evaluation boards.
const DefaultDevice = "/sys/class/leds/red/brightness"

const sysfsLEDPath = "/sys/class/leds"

// ErrUnavailable is returned by every operation on a switch whose device
// could not be opened, or which has been closed.
var ErrUnavailable = errors.New("led device unavailable")

// Switch drives an LED through a kernel LED-class brightness file.
// The file is opened once; an open failure is latched and never retried.
type Switch struct {
	path    string
	file    *os.File
	openErr error
	on      bool
}

// Open acquires a write-only handle to the brightness file at path.
// It never fails: if the device cannot be opened the error is kept and
// reported through Err, and On/Off return ErrUnavailable.
func Open(path string) *Switch {
	s := &Switch{path: path}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		s.openErr = err
		return s
	}

	s.file = f
	return s
}

// Err returns the error latched when the device was opened, if any.
func (s *Switch) Err() error {
	return s.openErr
}

// On writes "1" to the brightness file.
func (s *Switch) On() error {
	return s.write(true)
}

// Off writes "0" to the brightness file.
func (s *Switch) Off() error {
	return s.write(false)
}

// State returns the last state written successfully.
func (s *Switch) State() bool {
	return s.on
}

// Device returns the brightness file path.
func (s *Switch) Device() string {
	return s.path
}

// Close releases the handle. Closing an invalid or already closed switch is a no-op.
func (s *Switch) Close() error {
	if s.file == nil {
		return nil
	}

	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

func (s *Switch) write(on bool) error {
	if s.file == nil {
		return ErrUnavailable
	}

	value := "0"
	if on {
		value = "1"
	}

	// sysfs attributes ignore the offset; writing at 0 keeps regular files
	// holding only the latest value.
	if _, err := s.file.WriteAt([]byte(value), 0); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}

	s.on = on
	return nil
}
