// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     logging
// Description: Log backend with file rotation and line subscribers
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Config holds configuration for a log backend
type Config struct {
	// File is the rotating log file. Empty disables file logging.
	File string

	// Level is either a single level ("info") or a default level followed
	// by subsystem overrides ("info,RECD=debug").
	Level string

	// MaxFiles is the number of rotated files to keep
	MaxFiles int

	// Stdout receives every line as well (nil = no console output)
	Stdout io.Writer
}

// Backend fans log lines out to the console, a rotating file and an
// optional line handler.
type Backend struct {
	rotator *rotator.Rotator
	bknd    *slog.Backend
	stdout  io.Writer

	mu           sync.Mutex
	onLine       func(string)
	defaultLevel slog.Level
	levels       map[string]slog.Level
	loggers      map[string]*Logger
}

// NewBackend creates a new log backend
func NewBackend(cfg Config) (*Backend, error) {
	var logRotator *rotator.Rotator
	if cfg.File != "" {
		logDir, _ := filepath.Split(cfg.File)
		if logDir != "" {
			if err := os.MkdirAll(logDir, 0700); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		maxFiles := cfg.MaxFiles
		if maxFiles <= 0 {
			maxFiles = 10
		}
		var err error
		logRotator, err = rotator.New(cfg.File, 1024, false, maxFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to create file rotator: %w", err)
		}
	}

	defaultLevel, levels, err := ParseLevels(cfg.Level)
	if err != nil {
		if logRotator != nil {
			logRotator.Close()
		}
		return nil, err
	}

	b := &Backend{
		rotator:      logRotator,
		stdout:       cfg.Stdout,
		defaultLevel: defaultLevel,
		levels:       levels,
		loggers:      make(map[string]*Logger),
	}
	b.bknd = slog.NewBackend(b)

	return b, nil
}

// ParseLevels parses a debug level string into the default level and the
// per-subsystem overrides.
func ParseLevels(s string) (slog.Level, map[string]slog.Level, error) {
	defaultLevel := slog.LevelInfo
	levels := make(map[string]slog.Level)

	if strings.TrimSpace(s) == "" {
		return defaultLevel, levels, nil
	}

	for _, v := range strings.Split(s, ",") {
		fields := strings.Split(strings.TrimSpace(v), "=")
		switch len(fields) {
		case 1:
			level, ok := parseLevel(fields[0])
			if !ok {
				return 0, nil, fmt.Errorf("unknown log level %q", fields[0])
			}
			defaultLevel = level
		case 2:
			level, ok := parseLevel(fields[1])
			if !ok {
				return 0, nil, fmt.Errorf("unknown log level %q for %s", fields[1], fields[0])
			}
			levels[fields[0]] = level
		default:
			return 0, nil, fmt.Errorf("unable to parse %q as subsys=level "+
				"debuglevel string", v)
		}
	}

	return defaultLevel, levels, nil
}

// parseLevel accepts the usual names in addition to slog's own spelling
func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "warning":
		return slog.LevelWarn, true
	case "fatal":
		return slog.LevelCritical, true
	}
	return slog.LevelFromString(strings.ToLower(s))
}

// Write is called by slog for every formatted line
func (b *Backend) Write(p []byte) (int, error) {
	if b.stdout != nil {
		b.stdout.Write(p)
	}
	if b.rotator != nil {
		b.rotator.Write(p)
	}

	b.mu.Lock()
	onLine := b.onLine
	b.mu.Unlock()
	if onLine != nil {
		onLine(strings.TrimRight(string(p), "\n"))
	}

	return len(p), nil
}

// SetLineHandler registers fn to receive every log line. fn must not block.
func (b *Backend) SetLineHandler(fn func(string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onLine = fn
}

// Logger returns the logger for a subsystem, creating it on first use
func (b *Backend) Logger(subsys string) *Logger {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l, ok := b.loggers[subsys]; ok {
		return l
	}

	l := &Logger{log: b.bknd.Logger(subsys)}
	if level, ok := b.levels[subsys]; ok {
		l.log.SetLevel(level)
	} else {
		l.log.SetLevel(b.defaultLevel)
	}
	b.loggers[subsys] = l

	return l
}

// SetLevel applies a debug level string to all existing and future loggers.
// It replaces the previous default level and subsystem overrides.
func (b *Backend) SetLevel(s string) error {
	defaultLevel, levels, err := ParseLevels(s)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.defaultLevel = defaultLevel
	b.levels = levels
	for subsys, l := range b.loggers {
		if level, ok := b.levels[subsys]; ok {
			l.log.SetLevel(level)
		} else {
			l.log.SetLevel(b.defaultLevel)
		}
	}

	return nil
}

// Close closes the log file
func (b *Backend) Close() error {
	if b.rotator != nil {
		return b.rotator.Close()
	}
	return nil
}

// Discard returns a logger that drops everything. name is the subsystem the
// logger stands in for.
func Discard(name string) *Logger {
	return &Logger{log: slog.Disabled}
}
