package voicedesk

import (
	"context"
	"fmt"
	"os"

	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/msto63/voicedesk/internal/voicedesk/speech"
	"github.com/msto63/voicedesk/pkg/core/config"
	"github.com/msto63/voicedesk/pkg/core/health"
	"github.com/msto63/voicedesk/pkg/core/version"
)

// NewSystemCheck registers the checks of the audio system, the speech
// engine, the recordings directory and the configuration. backend and
// engine may be nil when they failed to start.
func NewSystemCheck(cfg *config.Config, backend audio.Backend, engine speech.Engine) *health.Registry {
	r := health.NewRegistry(AppName, version.Version)
	r.Register(AudioCheck(backend))
	r.Register(SpeechCheck(engine))
	r.Register(RecordingsCheck(cfg.Recording.Dir))
	r.RegisterFunc("config", func(ctx context.Context) health.CheckResult {
		if err := cfg.Validate(); err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		return health.CheckResult{Status: health.StatusHealthy, Message: "gültig"}
	})
	return r
}

// AudioCheck reports whether input devices can be enumerated
func AudioCheck(backend audio.Backend) health.Checker {
	return health.NewChecker("audio", func(ctx context.Context) health.CheckResult {
		if backend == nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: "Audiosystem nicht verfügbar"}
		}
		devices, err := backend.InputDevices()
		if err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		if len(devices) == 0 {
			return health.CheckResult{Status: health.StatusDegraded, Message: "keine Eingabegeräte gefunden"}
		}
		in, _, _ := backend.DefaultDevices()
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d Eingabegeräte, Standard: %s", len(devices), in),
		}
	})
}

// SpeechCheck reports the speech engine and its voices
func SpeechCheck(engine speech.Engine) health.Checker {
	return health.NewChecker("speech", func(ctx context.Context) health.CheckResult {
		if engine == nil {
			return health.CheckResult{Status: health.StatusDegraded, Message: "keine Sprachausgabe verfügbar"}
		}
		voices, err := engine.Voices(ctx)
		if err != nil {
			return health.CheckResult{
				Status:  health.StatusDegraded,
				Message: fmt.Sprintf("%s: Stimmen nicht lesbar: %v", engine.Name(), err),
			}
		}
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%s, %d Stimmen", engine.Name(), len(voices)),
		}
	})
}

// RecordingsCheck reports whether the recordings directory is writable
func RecordingsCheck(dir string) health.Checker {
	return health.NewChecker("recordings", func(ctx context.Context) health.CheckResult {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		f, err := os.CreateTemp(dir, ".check-*")
		if err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: "nicht beschreibbar: " + err.Error()}
		}
		f.Close()
		os.Remove(f.Name())
		return health.CheckResult{Status: health.StatusHealthy, Message: dir}
	})
}
