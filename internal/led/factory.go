package led

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var deviceTreeModelPath = "/proc/device-tree/model"

// AutoDevice asks New to pick the user LED of the detected board.
const AutoDevice = "auto"

// Config selects the LED the launcher drives.
type Config struct {
	Enabled bool
	// Device is a brightness file, AutoDevice, or empty for DefaultDevice.
	Device string
}

// New creates the LED controller described by cfg.
// A disabled config yields a no-op controller. An enabled config always yields a
// sysfs switch, even when the device cannot be opened, so that failures surface
// on every On/Off call instead of at startup.
func New(cfg Config, logger *slog.Logger) Controller {
	if !cfg.Enabled {
		logger.Info("LED control disabled, using no-op controller")
		return newNoop(logger)
	}

	device := cfg.Device
	switch device {
	case "":
		device = DefaultDevice
	case AutoDevice:
		boardModel := detectBoard()
		device = boardDevice(boardModel)
		logger.Info("Detected board for LED control", "board_model", boardModel, "device", device)
	}

	sw := Open(device)
	if err := sw.Err(); err != nil {
		logger.Warn("LED device unavailable, LED operations will fail", "device", device, "error", err)
	} else {
		logger.Info("LED device opened", "device", device)
	}
	return sw
}

// boardDevice maps a device-tree model string to the brightness file of its user LED.
func boardDevice(boardModel string) string {
	var name string
	switch {
	case strings.Contains(boardModel, "NanoPC-T6"):
		name = "usr_led"
	case strings.Contains(boardModel, "Orange Pi"):
		name = "green_led"
	case strings.Contains(boardModel, "Raspberry Pi"):
		name = "ACT"
	default:
		return DefaultDevice
	}
	return filepath.Join(sysfsLEDPath, name, "brightness")
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
