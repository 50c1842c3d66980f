package speech

import (
	"fmt"
	"strings"

	"github.com/msto63/voicedesk/pkg/core/logging"
)

// Config selects and configures the speech engine
type Config struct {
	// Engine is one of auto, say, espeak or piper
	Engine string

	// ESpeakBinary overrides the espeak executable
	ESpeakBinary string

	PiperBinary     string
	PiperModel      string
	PiperVoicesDir  string
	PiperSampleRate int
}

// NewEngine returns the configured engine. "auto" picks the first available
// of say, espeak and piper. ErrNoEngine is returned when nothing usable is
// installed.
func NewEngine(cfg Config, player PCMPlayer, logger *logging.Logger) (Engine, error) {
	if logger == nil {
		logger = logging.Discard("SPCH")
	}

	candidates := map[string]Engine{
		"say":    NewSay(),
		"espeak": NewESpeak(cfg.ESpeakBinary),
		"piper":  NewPiper(cfg, player),
	}

	name := strings.ToLower(strings.TrimSpace(cfg.Engine))
	if name == "" {
		name = "auto"
	}

	if name == "auto" {
		for _, n := range []string{"say", "espeak", "piper"} {
			if e := candidates[n]; e.Available() {
				logger.Info("Speech engine selected", "engine", n)
				return e, nil
			}
			logger.Debug("Speech engine not available", "engine", n)
		}
		return nil, ErrNoEngine
	}

	e, ok := candidates[name]
	if !ok {
		return nil, fmt.Errorf("unknown speech engine: %s", cfg.Engine)
	}
	if !e.Available() {
		return nil, fmt.Errorf("%w: %s is not installed", ErrNoEngine, name)
	}
	logger.Info("Speech engine selected", "engine", name)
	return e, nil
}
