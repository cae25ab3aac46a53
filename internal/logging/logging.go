// Package logging provides the diagnostic logger with optional file rotation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds log destination configuration.
type Config struct {
	Path       string // Log file path; empty disables the file
	Level      string // debug, info, warn or error
	MaxSizeMB  int    // Max size in MB before rotation
	MaxBackups int    // Number of old files to keep
	MaxAgeDays int    // Max age in days
	Compress   bool   // Compress old files
	Verbose    bool   // Also log to the console at debug level
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// NewRotatingWriter creates a log writer with rotation support.
func NewRotatingWriter(cfg Config) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// NewLogger creates a structured logger that writes to the given writer.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Open builds the logger described by cfg. Console output goes to console.
// The returned closer releases the log file and must be called on exit.
// With no destination configured, log records are discarded.
func Open(cfg Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if cfg.Path != "" {
		w := NewRotatingWriter(cfg)
		writers = append(writers, w)
		closer = w
	}
	if cfg.Verbose {
		writers = append(writers, console)
		level = slog.LevelDebug
	}

	if len(writers) == 0 {
		return slog.New(slog.DiscardHandler), closer, nil
	}
	return NewLogger(io.MultiWriter(writers...), level), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
