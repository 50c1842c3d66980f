package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "VOICEDESK_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
	Recording RecordingConfig `toml:"recording" yaml:"recording"`
	Speech    SpeechConfig    `toml:"speech" yaml:"speech"`
	UI        UIConfig        `toml:"ui" yaml:"ui"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFile     string `toml:"log_file" yaml:"log_file"`
	MaxLogFiles int    `toml:"max_log_files" yaml:"max_log_files"`
}

// AudioConfig holds the fixed capture parameters
type AudioConfig struct {
	SampleRate  int `toml:"sample_rate" yaml:"sample_rate"`
	Channels    int `toml:"channels" yaml:"channels"`
	SampleWidth int `toml:"sample_width" yaml:"sample_width"`
	ChunkFrames int `toml:"chunk_frames" yaml:"chunk_frames"`

	// InputDevice is the host API device index; -1 selects the system default
	InputDevice int `toml:"input_device" yaml:"input_device"`
}

// RecordingConfig holds recorder loop and storage settings
type RecordingConfig struct {
	Dir              string   `toml:"dir" yaml:"dir"`
	SilenceThreshold int      `toml:"silence_threshold" yaml:"silence_threshold"`
	SilenceChunks    int      `toml:"silence_chunks" yaml:"silence_chunks"`
	LevelGain        float64  `toml:"level_gain" yaml:"level_gain"`
	ProbeReads       int      `toml:"probe_reads" yaml:"probe_reads"`
	ProbeInterval    Duration `toml:"probe_interval" yaml:"probe_interval"`
}

// SpeechConfig holds text-to-speech settings
type SpeechConfig struct {
	Engine          string `toml:"engine" yaml:"engine"` // auto, say, espeak, piper
	Rate            int    `toml:"rate" yaml:"rate"`
	VoiceHint       string `toml:"voice_hint" yaml:"voice_hint"`
	PiperBinary     string `toml:"piper_binary" yaml:"piper_binary"`
	PiperModel      string `toml:"piper_model" yaml:"piper_model"`
	PiperVoicesDir  string `toml:"piper_voices_dir" yaml:"piper_voices_dir"`
	PiperSampleRate int    `toml:"piper_sample_rate" yaml:"piper_sample_rate"`
}

// UIConfig holds user interface settings
type UIConfig struct {
	DesktopNotifications bool `toml:"desktop_notifications" yaml:"desktop_notifications"`
	Hotkey               bool `toml:"hotkey" yaml:"hotkey"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() Config {
	var cfg Config
	cfg.Audio.InputDevice = -1
	cfg.UI.DesktopNotifications = true
	cfg.UI.Hotkey = true
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. The format follows the
// file extension; anything but .yaml/.yml is read as TOML.
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from VOICEDESK_CONFIG or the first file
// found in the default locations. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.expandEnvVars()
	return &cfg, nil
}

// DefaultPaths lists the locations searched for a config file
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./config.toml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "voicedesk", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.General.LogFile = filepath.Join(dir, "voicedesk", "logs", "voicedesk.log")
		} else {
			c.General.LogFile = filepath.Join("logs", "voicedesk.log")
		}
	}
	if c.General.MaxLogFiles == 0 {
		c.General.MaxLogFiles = 10
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.SampleWidth == 0 {
		c.Audio.SampleWidth = 2
	}
	if c.Audio.ChunkFrames == 0 {
		c.Audio.ChunkFrames = 1024
	}

	// Recording
	if c.Recording.Dir == "" {
		c.Recording.Dir = "recordings"
	}
	if c.Recording.SilenceThreshold == 0 {
		c.Recording.SilenceThreshold = 5
	}
	if c.Recording.SilenceChunks == 0 {
		c.Recording.SilenceChunks = 50
	}
	if c.Recording.LevelGain == 0 {
		c.Recording.LevelGain = 5
	}
	if c.Recording.ProbeReads == 0 {
		c.Recording.ProbeReads = 50
	}
	if c.Recording.ProbeInterval.Duration == 0 {
		c.Recording.ProbeInterval.Duration = 100 * time.Millisecond
	}

	// Speech
	if c.Speech.Engine == "" {
		c.Speech.Engine = "auto"
	}
	if c.Speech.Rate == 0 {
		c.Speech.Rate = 150
	}
	if c.Speech.VoiceHint == "" {
		c.Speech.VoiceHint = "german"
	}
	if c.Speech.PiperSampleRate == 0 {
		c.Speech.PiperSampleRate = 22050
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Recording.Dir = os.ExpandEnv(c.Recording.Dir)
	c.Speech.PiperBinary = os.ExpandEnv(c.Speech.PiperBinary)
	c.Speech.PiperModel = os.ExpandEnv(c.Speech.PiperModel)
	c.Speech.PiperVoicesDir = os.ExpandEnv(c.Speech.PiperVoicesDir)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate out of range: %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels < 1 || c.Audio.Channels > 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got %d", c.Audio.Channels)
	}
	if c.Audio.SampleWidth != 2 {
		return fmt.Errorf("audio.sample_width must be 2 (16 bit), got %d", c.Audio.SampleWidth)
	}
	if c.Audio.ChunkFrames < 64 {
		return fmt.Errorf("audio.chunk_frames too small: %d", c.Audio.ChunkFrames)
	}
	if c.Audio.InputDevice < -1 {
		return fmt.Errorf("audio.input_device must be -1 (default) or a device index, got %d", c.Audio.InputDevice)
	}
	if c.Recording.SilenceThreshold < 0 || c.Recording.SilenceThreshold > 100 {
		return fmt.Errorf("recording.silence_threshold must be within 0..100, got %d", c.Recording.SilenceThreshold)
	}
	if c.Recording.SilenceChunks < 1 {
		return fmt.Errorf("recording.silence_chunks must be positive, got %d", c.Recording.SilenceChunks)
	}
	if c.Recording.LevelGain <= 0 {
		return fmt.Errorf("recording.level_gain must be positive, got %v", c.Recording.LevelGain)
	}
	switch c.Speech.Engine {
	case "auto", "say", "espeak", "piper":
	default:
		return fmt.Errorf("speech.engine must be auto, say, espeak or piper, got %q", c.Speech.Engine)
	}
	if c.Speech.Rate < 50 || c.Speech.Rate > 300 {
		return fmt.Errorf("speech.rate must be within 50..300, got %d", c.Speech.Rate)
	}
	return nil
}
