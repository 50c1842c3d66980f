// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     logging
// Description: Logger with key-value fields on top of decred/slog
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"strings"

	"github.com/decred/slog"
)

// Logger wraps a slog subsystem logger and accepts key-value pairs
type Logger struct {
	log slog.Logger
}

// Debug logs a debug message with optional key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l.log.Level() > slog.LevelDebug {
		return
	}
	l.log.Debug(formatMessage(msg, keysAndValues...))
}

// Info logs an info message with optional key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(formatMessage(msg, keysAndValues...))
}

// Warn logs a warning message with optional key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn(formatMessage(msg, keysAndValues...))
}

// Error logs an error message with optional key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(formatMessage(msg, keysAndValues...))
}

// formatMessage renders msg followed by key=value pairs. Non-string keys
// are skipped, an orphaned trailing key is dropped.
func formatMessage(msg string, keysAndValues ...interface{}) string {
	if len(keysAndValues) < 2 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		value := fmt.Sprint(keysAndValues[i+1])
		if strings.ContainsAny(value, " \t\"") {
			value = fmt.Sprintf("%q", value)
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(value)
	}
	return b.String()
}
