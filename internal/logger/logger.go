// Package logger writes structured logs to a file so they never interfere
// with the terminal UI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu       sync.Mutex
	slogger  *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	logPath  string
)

// ParseLevel maps a config string to a slog level. Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel sets the minimum level that is written
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// SetDebug enables debug level logging
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// Init opens (or creates) the log file at path. Calling it again is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if slogger != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logFile = f
	logPath = path
	slogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	slogger.Debug("Logger initialized", "path", path)
	return nil
}

// Path returns the current log file path, or "" when logging to a writer
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// ComponentLogger returns a logger with the component attribute pre-attached.
// Before Init it discards everything.
//
// Example:
//
//	log := logger.ComponentLogger("api")
//	log.Info("Request sent", "requestID", id)
func ComponentLogger(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if slogger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slogger.With(slog.String("component", component))
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogger = nil
	logPath = ""
}
