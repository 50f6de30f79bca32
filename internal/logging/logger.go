// Package logging provides per-module slog loggers whose levels can be changed
// at runtime. Records fan out to stdout, the systemd journal when present, and an
// in-memory ring buffer served by the API.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// DefaultBufferSize is the number of log entries retained for GET /api/logs.
const DefaultBufferSize = 500

// Config selects the global level, the output format and per-module overrides.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

type moduleLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

type registry struct {
	mu       sync.RWMutex
	cfg      Config
	ready    bool
	modules  map[string]*moduleLogger
	buffer   *RingBuffer
	callback LogCallback
}

var global = &registry{
	cfg:     Config{Level: "info", Format: "text"},
	modules: make(map[string]*moduleLogger),
}

// Initialize installs cfg, creates the log buffer and rebuilds every module logger.
func Initialize(cfg Config) {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.cfg = cfg
	global.ready = true
	if global.buffer == nil {
		global.buffer = NewRingBuffer(DefaultBufferSize)
	}

	for name, m := range global.modules {
		m.level.Set(global.levelFor(name))
		m.logger = slog.New(global.handler(m.level)).With("module", name)
	}

	root := &slog.LevelVar{}
	root.Set(parseLevel(cfg.Level, slog.LevelInfo))
	slog.SetDefault(slog.New(global.handler(root)))
}

// ApplyLevels updates global and per-module levels without touching handlers.
// It is used by the config watcher so existing loggers pick up the new levels.
func ApplyLevels(cfg Config) {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.cfg.Level = cfg.Level
	global.cfg.Modules = cfg.Modules
	for name, m := range global.modules {
		m.level.Set(global.levelFor(name))
	}
}

// Level reports the current level of a module logger.
func Level(module string) slog.Level {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if m, ok := global.modules[module]; ok {
		return m.level.Level()
	}
	return global.levelFor(module)
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	global.mu.RLock()
	m, ok := global.modules[module]
	global.mu.RUnlock()
	if ok {
		return m.logger
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if m, ok := global.modules[module]; ok {
		return m.logger
	}

	level := &slog.LevelVar{}
	level.Set(global.levelFor(module))
	m = &moduleLogger{
		logger: slog.New(global.handler(level)).With("module", module),
		level:  level,
	}
	global.modules[module] = m
	return m.logger
}

// GetBuffer returns the ring buffer, or nil before Initialize.
func GetBuffer() *RingBuffer {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.buffer
}

// SetLogCallback registers a function called for every buffered entry.
func SetLogCallback(cb LogCallback) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.callback = cb
}

// sink hands an entry to the buffer and the callback, if any.
func (r *registry) sink(entry LogEntry) {
	r.mu.RLock()
	buffer, cb := r.buffer, r.callback
	r.mu.RUnlock()

	if buffer != nil {
		buffer.Write(entry)
	}
	if cb != nil {
		cb(entry)
	}
}

// levelFor must be called with r.mu held.
func (r *registry) levelFor(module string) slog.Level {
	level := parseLevel(r.cfg.Level, slog.LevelInfo)
	if override, ok := r.cfg.Modules[module]; ok {
		level = parseLevel(override, level)
	}
	return level
}

// handler must be called with r.mu held.
func (r *registry) handler(level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if r.cfg.Format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	handlers := []slog.Handler{NewBufferHandler(level, r.sink)}
	if stdoutAttached() {
		handlers = append(handlers, stdout)
	}
	if r.ready && IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	return NewMultiHandler(handlers...)
}

// stdoutAttached is false when stdout points at /dev/null, as under systemd
// with StandardOutput=null.
func stdoutAttached() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
