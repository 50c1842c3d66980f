package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/decred/slog"
)

func TestLogger_LogMethods(t *testing.T) {
	// Test that log methods don't panic
	logger := Discard("test")

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")
	logger.Info("message", "key1", "value1", "orphan")
	logger.Info("message without key-values")
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		kv       []interface{}
		expected string
	}{
		{"no fields", "hello", nil, "hello"},
		{"single field", "saved", []interface{}{"path", "a.wav"}, "saved path=a.wav"},
		{"multiple fields", "m", []interface{}{"k1", 1, "k2", true}, "m k1=1 k2=true"},
		{"orphan key", "m", []interface{}{"k1", 1, "orphan"}, "m k1=1"},
		{"non-string key", "m", []interface{}{123, "value"}, "m"},
		{"quoted value", "m", []interface{}{"name", "Built-in Mic"}, `m name="Built-in Mic"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMessage(tt.msg, tt.kv...); got != tt.expected {
				t.Errorf("formatMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseLevels(t *testing.T) {
	tests := []struct {
		input        string
		defaultLevel slog.Level
		overrides    map[string]slog.Level
		wantErr      bool
	}{
		{"", slog.LevelInfo, nil, false},
		{"debug", slog.LevelDebug, nil, false},
		{"warning", slog.LevelWarn, nil, false},
		{"error", slog.LevelError, nil, false},
		{"info,RECD=debug", slog.LevelInfo, map[string]slog.Level{"RECD": slog.LevelDebug}, false},
		{"invalid", 0, nil, true},
		{"a=b=c", 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, overrides, err := ParseLevels(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevels() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if level != tt.defaultLevel {
				t.Errorf("default level = %v, want %v", level, tt.defaultLevel)
			}
			for k, v := range tt.overrides {
				if overrides[k] != v {
					t.Errorf("override %s = %v, want %v", k, overrides[k], v)
				}
			}
		})
	}
}

func TestBackend_WritesToAllSinks(t *testing.T) {
	var stdout bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "voicedesk.log")

	b, err := NewBackend(Config{File: logFile, Level: "debug", Stdout: &stdout})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	defer b.Close()

	var mu sync.Mutex
	var lines []string
	b.SetLineHandler(func(line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	})

	b.Logger("RECD").Info("Recording saved", "path", "a.wav")

	if !strings.Contains(stdout.String(), "RECD: Recording saved path=a.wav") {
		t.Errorf("stdout = %q, missing log line", stdout.String())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(lines) != 1 {
		t.Fatalf("line handler got %d lines, want 1", len(lines))
	}
	if strings.HasSuffix(lines[0], "\n") {
		t.Error("line handler should receive lines without trailing newline")
	}
}

func TestBackend_SubsystemLevels(t *testing.T) {
	var stdout bytes.Buffer
	b, err := NewBackend(Config{Level: "info,PLAY=debug", Stdout: &stdout})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.Logger("RECD").Debug("hidden")
	b.Logger("PLAY").Debug("visible")

	out := stdout.String()
	if strings.Contains(out, "hidden") {
		t.Error("RECD debug line should be filtered at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("PLAY debug line should pass its override")
	}

	if err := b.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	b.Logger("RECD").Debug("now shown")
	if !strings.Contains(stdout.String(), "now shown") {
		t.Error("SetLevel should lower the level of existing loggers")
	}

	// Overrides of the previous level string are dropped
	if err := b.SetLevel("info"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	b.Logger("PLAY").Debug("override gone")
	b.Logger("SPCH").Debug("new logger")
	if out := stdout.String(); strings.Contains(out, "override gone") || strings.Contains(out, "new logger") {
		t.Error("SetLevel should replace subsystem overrides")
	}

	if err := b.SetLevel("loud"); err == nil {
		t.Error("SetLevel() should reject unknown levels")
	}
}

func TestNewBackend_InvalidLevel(t *testing.T) {
	if _, err := NewBackend(Config{Level: "loud"}); err == nil {
		t.Error("NewBackend() should reject unknown levels")
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := Discard("benchmark")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}
