// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     speech
// Description: Text-to-speech engines and voice selection
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/msto63/voicedesk/pkg/core/logging"
)

const (
	// DefaultRate is the speech rate in words per minute
	DefaultRate = 150

	// MinRate is the slowest accepted rate
	MinRate = 50

	// MaxRate is the fastest accepted rate
	MaxRate = 300
)

var (
	// ErrEmptyText is returned for requests without text
	ErrEmptyText = errors.New("no text to speak")

	// ErrNoEngine is returned when no speech engine is available
	ErrNoEngine = errors.New("no speech engine available")
)

// Voice describes a voice offered by an engine. The zero Voice selects the
// engine default.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// IsDefault reports whether v selects the engine default voice
func (v Voice) IsDefault() bool {
	return v.ID == ""
}

func (v Voice) String() string {
	if v.IsDefault() {
		return "default"
	}
	if v.Language != "" {
		return fmt.Sprintf("%s (%s)", v.Name, v.Language)
	}
	return v.Name
}

// Engine is the interface for text-to-speech engines
type Engine interface {
	// Name returns the engine identifier
	Name() string

	// Available checks whether the engine can be used on this system
	Available() bool

	// Voices lists the installed voices
	Voices(ctx context.Context) ([]Voice, error)

	// Say synthesizes text and plays it to completion
	Say(ctx context.Context, text string, voice Voice, rate int) error
}

// Request is a single speech request
type Request struct {
	Text string
	Rate int // words per minute
}

// ClampRate limits rate to MinRate..MaxRate. Zero selects DefaultRate.
func ClampRate(rate int) int {
	switch {
	case rate == 0:
		return DefaultRate
	case rate < MinRate:
		return MinRate
	case rate > MaxRate:
		return MaxRate
	}
	return rate
}

// languageCodes maps language words to locale prefixes. Engines report
// languages as de, de_DE or de-DE.
var languageCodes = map[string]string{
	"german":      "de",
	"deutsch":     "de",
	"english":     "en",
	"englisch":    "en",
	"french":      "fr",
	"französisch": "fr",
	"spanish":     "es",
	"spanisch":    "es",
	"italian":     "it",
	"italienisch": "it",
	"dutch":       "nl",
	"korean":      "ko",
	"koreanisch":  "ko",
	"japanese":    "ja",
	"chinese":     "zh",
}

// hintLanguage returns the locale prefix a hint stands for, or ""
func hintLanguage(hint string) string {
	if code, ok := languageCodes[hint]; ok {
		return code
	}
	if len(hint) == 2 {
		return hint
	}
	return ""
}

// matchesLanguage reports whether lang is code or a locale of it
func matchesLanguage(lang, code string) bool {
	lang = strings.ToLower(lang)
	return lang == code ||
		strings.HasPrefix(lang, code+"_") ||
		strings.HasPrefix(lang, code+"-")
}

// SelectVoice picks the voice for hint, ignoring case. A hint naming a
// language ("german", "de") selects the first voice of that language.
// Otherwise the first voice whose name or language contains hint wins.
// Without a match it returns the default voice and false.
func SelectVoice(voices []Voice, hint string) (Voice, bool) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return Voice{}, false
	}
	if code := hintLanguage(hint); code != "" {
		for _, v := range voices {
			if matchesLanguage(v.Language, code) {
				return v, true
			}
		}
	}
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.Name), hint) ||
			strings.Contains(strings.ToLower(v.Language), hint) {
			return v, true
		}
	}
	return Voice{}, false
}

// Speaker validates requests, picks a voice and drives an Engine
type Speaker struct {
	engine Engine
	logger *logging.Logger

	mu     sync.Mutex
	hint   string
	voices []Voice
}

// NewSpeaker creates a speaker. engine may be nil; requests then fail with
// ErrNoEngine.
func NewSpeaker(engine Engine, hint string, logger *logging.Logger) *Speaker {
	if logger == nil {
		logger = logging.Discard("SPCH")
	}
	return &Speaker{engine: engine, hint: hint, logger: logger}
}

// Engine returns the engine in use, or nil
func (s *Speaker) Engine() Engine {
	return s.engine
}

// VoiceHint returns the preferred voice hint
func (s *Speaker) VoiceHint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hint
}

// SetVoiceHint changes the preferred voice hint
func (s *Speaker) SetVoiceHint(hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hint = hint
}

// Voices lists the voices of the engine. The list is cached after the first
// successful call.
func (s *Speaker) Voices(ctx context.Context) ([]Voice, error) {
	if s.engine == nil {
		return nil, ErrNoEngine
	}

	s.mu.Lock()
	cached := s.voices
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	voices, err := s.engine.Voices(ctx)
	if err != nil {
		return nil, err
	}
	if voices == nil {
		voices = []Voice{}
	}

	s.mu.Lock()
	s.voices = voices
	s.mu.Unlock()
	return voices, nil
}

// Speak speaks req.Text and blocks until playback finished. It returns the
// voice that was used.
func (s *Speaker) Speak(ctx context.Context, req Request) (Voice, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Voice{}, ErrEmptyText
	}
	if s.engine == nil {
		return Voice{}, ErrNoEngine
	}

	rate := ClampRate(req.Rate)

	var voice Voice
	voices, err := s.Voices(ctx)
	if err != nil {
		s.logger.Warn("Failed to list voices, using default voice", "engine", s.engine.Name(), "error", err)
	} else if v, ok := SelectVoice(voices, s.VoiceHint()); ok {
		voice = v
	}

	s.logger.Info("Speaking",
		"engine", s.engine.Name(),
		"voice", voice.String(),
		"rate", rate,
		"chars", len(text),
	)

	if err := s.engine.Say(ctx, text, voice, rate); err != nil {
		s.logger.Error("Speech synthesis failed", "engine", s.engine.Name(), "error", err)
		return voice, fmt.Errorf("%s: %w", s.engine.Name(), err)
	}

	s.logger.Debug("Speech finished", "engine", s.engine.Name())
	return voice, nil
}
