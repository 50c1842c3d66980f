// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     voicedesk
// Description: Settings persistence for user choices made in the UI
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package voicedesk

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/msto63/voicedesk/pkg/core/config"
)

// Settings holds persistent settings
type Settings struct {
	InputDevice *int   `json:"input_device,omitempty"`
	SpeechRate  int    `json:"speech_rate,omitempty"`
	VoiceHint   string `json:"voice_hint,omitempty"`
}

// DefaultSettingsPath returns <config dir>/voicedesk/settings.json
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "voicedesk", "settings.json"), nil
}

// LoadSettings reads settings from path. A missing file yields empty settings.
func LoadSettings(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil // No settings file yet, use defaults
		}
		return s, err
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings writes settings to path, creating the directory if needed
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Apply overrides configuration values with the saved settings
func (s Settings) Apply(cfg *config.Config) {
	if s.InputDevice != nil {
		cfg.Audio.InputDevice = *s.InputDevice
	}
	if s.SpeechRate > 0 {
		cfg.Speech.Rate = s.SpeechRate
	}
	if s.VoiceHint != "" {
		cfg.Speech.VoiceHint = s.VoiceHint
	}
}
