package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"hours", "2h", 2 * time.Hour, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 5 * time.Minute, "5m0s"},
		{"hours", 2 * time.Hour, "2h0m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Duration{tt.duration}
			result, err := d.MarshalText()

			if err != nil {
				t.Errorf("MarshalText() error = %v", err)
				return
			}

			if string(result) != tt.expected {
				t.Errorf("MarshalText() = %v, want %v", string(result), tt.expected)
			}
		})
	}
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		Interval Duration `yaml:"interval"`
	}
	if err := yaml.Unmarshal([]byte("interval: 250ms\n"), &v); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if v.Interval.Duration != 250*time.Millisecond {
		t.Errorf("Interval = %v, want 250ms", v.Interval.Duration)
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	// General defaults
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if !strings.HasSuffix(cfg.General.LogFile, "voicedesk.log") {
		t.Errorf("General.LogFile = %v, want a voicedesk.log path", cfg.General.LogFile)
	}
	if cfg.General.MaxLogFiles != 10 {
		t.Errorf("General.MaxLogFiles = %v, want 10", cfg.General.MaxLogFiles)
	}

	// Audio defaults
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %v, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Errorf("Audio.Channels = %v, want 1", cfg.Audio.Channels)
	}
	if cfg.Audio.SampleWidth != 2 {
		t.Errorf("Audio.SampleWidth = %v, want 2", cfg.Audio.SampleWidth)
	}
	if cfg.Audio.ChunkFrames != 1024 {
		t.Errorf("Audio.ChunkFrames = %v, want 1024", cfg.Audio.ChunkFrames)
	}

	// Recording defaults
	if cfg.Recording.Dir != "recordings" {
		t.Errorf("Recording.Dir = %v, want recordings", cfg.Recording.Dir)
	}
	if cfg.Recording.SilenceThreshold != 5 {
		t.Errorf("Recording.SilenceThreshold = %v, want 5", cfg.Recording.SilenceThreshold)
	}
	if cfg.Recording.SilenceChunks != 50 {
		t.Errorf("Recording.SilenceChunks = %v, want 50", cfg.Recording.SilenceChunks)
	}
	if cfg.Recording.ProbeReads != 50 {
		t.Errorf("Recording.ProbeReads = %v, want 50", cfg.Recording.ProbeReads)
	}
	if cfg.Recording.ProbeInterval.Duration != 100*time.Millisecond {
		t.Errorf("Recording.ProbeInterval = %v, want 100ms", cfg.Recording.ProbeInterval.Duration)
	}

	// Speech defaults
	if cfg.Speech.Engine != "auto" {
		t.Errorf("Speech.Engine = %v, want auto", cfg.Speech.Engine)
	}
	if cfg.Speech.Rate != 150 {
		t.Errorf("Speech.Rate = %v, want 150", cfg.Speech.Rate)
	}
	if cfg.Speech.VoiceHint != "german" {
		t.Errorf("Speech.VoiceHint = %v, want german", cfg.Speech.VoiceHint)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Audio.InputDevice != -1 {
		t.Errorf("Audio.InputDevice = %v, want -1", cfg.Audio.InputDevice)
	}
	if !cfg.UI.DesktopNotifications {
		t.Error("UI.DesktopNotifications = false, want true")
	}
	if !cfg.UI.Hotkey {
		t.Error("UI.Hotkey = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"rate too low", func(c *Config) { c.Speech.Rate = 49 }, true},
		{"rate too high", func(c *Config) { c.Speech.Rate = 301 }, true},
		{"rate lower bound", func(c *Config) { c.Speech.Rate = 50 }, false},
		{"unknown engine", func(c *Config) { c.Speech.Engine = "festival" }, true},
		{"piper engine", func(c *Config) { c.Speech.Engine = "piper" }, false},
		{"stereo", func(c *Config) { c.Audio.Channels = 2 }, false},
		{"too many channels", func(c *Config) { c.Audio.Channels = 6 }, true},
		{"24 bit", func(c *Config) { c.Audio.SampleWidth = 3 }, true},
		{"bad device", func(c *Config) { c.Audio.InputDevice = -2 }, true},
		{"device index", func(c *Config) { c.Audio.InputDevice = 3 }, false},
		{"threshold above 100", func(c *Config) { c.Recording.SilenceThreshold = 101 }, true},
		{"negative gain", func(c *Config) { c.Recording.LevelGain = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("Load() expected error for non-existent file")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[general]
log_level = "debug"

[audio]
input_device = 2

[recording]
dir = "/tmp/takes"
probe_interval = "50ms"

[speech]
engine = "espeak"
rate = 180

[ui]
hotkey = false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Audio.InputDevice != 2 {
		t.Errorf("Audio.InputDevice = %v, want 2", cfg.Audio.InputDevice)
	}
	if cfg.Recording.Dir != "/tmp/takes" {
		t.Errorf("Recording.Dir = %v, want /tmp/takes", cfg.Recording.Dir)
	}
	if cfg.Recording.ProbeInterval.Duration != 50*time.Millisecond {
		t.Errorf("Recording.ProbeInterval = %v, want 50ms", cfg.Recording.ProbeInterval.Duration)
	}
	if cfg.Speech.Engine != "espeak" {
		t.Errorf("Speech.Engine = %v, want espeak", cfg.Speech.Engine)
	}
	if cfg.Speech.Rate != 180 {
		t.Errorf("Speech.Rate = %v, want 180", cfg.Speech.Rate)
	}
	if cfg.UI.Hotkey {
		t.Error("UI.Hotkey = true, want false")
	}

	// Check defaults were applied for missing values
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %v, want 44100 (default)", cfg.Audio.SampleRate)
	}
	if !cfg.UI.DesktopNotifications {
		t.Error("UI.DesktopNotifications = false, want true (default)")
	}
}

func TestLoad_YAMLConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
recording:
  dir: yaml-takes
  silence_chunks: 20
speech:
  voice_hint: anna
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Recording.Dir != "yaml-takes" {
		t.Errorf("Recording.Dir = %v, want yaml-takes", cfg.Recording.Dir)
	}
	if cfg.Recording.SilenceChunks != 20 {
		t.Errorf("Recording.SilenceChunks = %v, want 20", cfg.Recording.SilenceChunks)
	}
	if cfg.Speech.VoiceHint != "anna" {
		t.Errorf("Speech.VoiceHint = %v, want anna", cfg.Speech.VoiceHint)
	}
	if cfg.Audio.InputDevice != -1 {
		t.Errorf("Audio.InputDevice = %v, want -1 (default)", cfg.Audio.InputDevice)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("[speech]\nrate = 999\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for out-of-range rate")
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("VOICEDESK_TEST_HOME", "/home/tester")

	cfg := &Config{
		Recording: RecordingConfig{
			Dir: "$VOICEDESK_TEST_HOME/recordings",
		},
	}

	cfg.expandEnvVars()

	if cfg.Recording.Dir != "/home/tester/recordings" {
		t.Errorf("Recording.Dir = %v, want /home/tester/recordings", cfg.Recording.Dir)
	}
}

func TestLoadFromEnv_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("[speech]\nrate = 200\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv(EnvConfigPath, configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Speech.Rate != 200 {
		t.Errorf("Speech.Rate = %v, want 200", cfg.Speech.Rate)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	// Change to a temp directory without config files
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Speech.Rate != 150 {
		t.Errorf("Speech.Rate = %v, want 150 (default)", cfg.Speech.Rate)
	}
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "config.example.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != Default() {
		t.Errorf("example config differs from defaults:\n got %+v\nwant %+v", *cfg, Default())
	}
}
