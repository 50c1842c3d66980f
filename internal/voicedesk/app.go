// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     voicedesk
// Description: Application core: recording, playback and speech tasks
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package voicedesk

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/msto63/voicedesk/internal/voicedesk/library"
	"github.com/msto63/voicedesk/internal/voicedesk/speech"
	"github.com/msto63/voicedesk/pkg/core/config"
	"github.com/msto63/voicedesk/pkg/core/logging"
	"github.com/msto63/voicedesk/pkg/core/version"
)

// AppName is shown in window titles and notifications
const AppName = "VoiceDesk"

// DefaultEventBuffer is the capacity of the event queue
const DefaultEventBuffer = 256

var (
	// ErrNoSelection is returned when no recording was selected
	ErrNoSelection = errors.New("no recording selected")

	// ErrNotRecording is returned when stopping without a running recording
	ErrNotRecording = errors.New("no recording running")

	// ErrAudioUnavailable is returned when the audio system failed to start
	ErrAudioUnavailable = fmt.Errorf("%w: audio system not available", audio.ErrDevice)
)

// Options configures an App
type Options struct {
	Config *config.Config

	// Backend is the audio device access. nil opens PortAudio.
	Backend audio.Backend

	// Engine is the speech engine. nil selects one from the configuration.
	Engine speech.Engine

	// Notifier shows desktop notifications for warnings and errors. nil
	// disables them.
	Notifier Notifier

	// Logs provides subsystem loggers. nil discards log output.
	Logs *logging.Backend

	// SettingsPath is where UI choices are saved. Empty disables saving.
	SettingsPath string

	EventBuffer int
}

// App is the application core. Its methods are called from the UI goroutine
// (and the hotkey listener); results of background work arrive on Events.
type App struct {
	cfg      config.Config
	logger   *logging.Logger
	backend  audio.Backend
	recorder *audio.Recorder
	player   *audio.Player
	speaker  *speech.Speaker
	library  *library.Library
	session  *Session
	state    *StateMachine
	notifier Notifier
	probe    audio.ProbeOptions
	logs     *logging.Backend

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event

	mu            sync.RWMutex
	devices       []audio.DeviceInfo
	defaultInput  string
	defaultOutput string
	rate          int
	debugLog      bool
	settingsPath  string

	closeOnce sync.Once
}

// New creates the application. Failures of the audio system or the speech
// engine are reported as notices and leave the app running without them.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	cfg := *opts.Config

	subLogger := func(subsys string) *logging.Logger {
		if opts.Logs == nil {
			return logging.Discard(subsys)
		}
		return opts.Logs.Logger(subsys)
	}

	lib, err := library.Open(cfg.Recording.Dir, subLogger("LIBR"))
	if err != nil {
		return nil, err
	}

	bufSize := opts.EventBuffer
	if bufSize <= 0 {
		bufSize = DefaultEventBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:          cfg,
		logger:       subLogger("VDSK"),
		library:      lib,
		state:        NewStateMachine(),
		notifier:     opts.Notifier,
		logs:         opts.Logs,
		debugLog:     strings.EqualFold(strings.TrimSpace(cfg.General.LogLevel), "debug"),
		ctx:          ctx,
		cancel:       cancel,
		events:       make(chan Event, bufSize),
		rate:         speech.ClampRate(cfg.Speech.Rate),
		settingsPath: opts.SettingsPath,
		probe: audio.ProbeOptions{
			Reads:    cfg.Recording.ProbeReads,
			Interval: cfg.Recording.ProbeInterval.Duration,
		},
	}

	a.state.AddListener(func(from, to State) {
		a.logger.Debug("State changed", "from", from.String(), "to", to.String())
		a.post(StateEvent{From: from, To: to})
	})

	// Audio system
	a.backend = opts.Backend
	if a.backend == nil {
		pa, err := audio.NewPortAudio()
		if err != nil {
			a.logger.Error("Audio system unavailable", "error", err)
			a.notice(SeverityError, "Audio", "Audiosystem konnte nicht initialisiert werden: "+err.Error())
		} else {
			a.backend = pa
		}
	}

	recCfg := audio.RecorderConfig{
		Format: audio.Format{
			SampleRate:  cfg.Audio.SampleRate,
			Channels:    cfg.Audio.Channels,
			SampleWidth: cfg.Audio.SampleWidth,
		},
		ChunkFrames:      cfg.Audio.ChunkFrames,
		LevelGain:        cfg.Recording.LevelGain,
		SilenceThreshold: cfg.Recording.SilenceThreshold,
		SilenceChunks:    cfg.Recording.SilenceChunks,
	}
	a.recorder = audio.NewRecorder(a.backend, recCfg, subLogger("RECD"))
	a.player = audio.NewPlayer(a.backend, cfg.Audio.ChunkFrames, subLogger("PLAY"))

	// Speech engine
	engine := opts.Engine
	if engine == nil {
		engine, err = speech.NewEngine(EngineConfig(&cfg), a.player, subLogger("SPCH"))
		if err != nil {
			a.logger.Warn("Speech engine unavailable", "engine", cfg.Speech.Engine, "error", err)
			a.notice(SeverityWarning, "Sprachausgabe", "Keine Sprachausgabe verfügbar: "+err.Error())
			engine = nil
		}
	}
	a.speaker = speech.NewSpeaker(engine, cfg.Speech.VoiceHint, subLogger("SPCH"))

	// Input devices
	device := cfg.Audio.InputDevice
	if a.backend != nil {
		if err := a.loadDevices(); err != nil {
			a.logger.Error("Failed to enumerate input devices", "error", err)
			a.notice(SeverityError, "Audio", "Geräte konnten nicht ermittelt werden: "+err.Error())
		}
		if device >= 0 && !a.hasDevice(device) {
			a.logger.Warn("Configured input device not found, using default", "device", device)
			device = -1
		}
	}
	a.session = NewSession(ctx, device, a.taskDone)

	a.logger.Info("VoiceDesk started",
		"version", version.Version,
		"recordings", lib.Dir(),
		"device", device,
		"engine", a.EngineName(),
	)
	return a, nil
}

// EngineConfig maps the speech section of the configuration
func EngineConfig(cfg *config.Config) speech.Config {
	return speech.Config{
		Engine:          cfg.Speech.Engine,
		PiperBinary:     cfg.Speech.PiperBinary,
		PiperModel:      cfg.Speech.PiperModel,
		PiperVoicesDir:  cfg.Speech.PiperVoicesDir,
		PiperSampleRate: cfg.Speech.PiperSampleRate,
	}
}

// Events returns the queue of events for the UI
func (a *App) Events() <-chan Event {
	return a.events
}

// post queues an event. Level events are dropped when the queue is full.
func (a *App) post(ev Event) {
	if _, ok := ev.(LevelEvent); ok {
		select {
		case a.events <- ev:
		default:
		}
		return
	}
	select {
	case a.events <- ev:
	case <-a.ctx.Done():
	}
}

// notice logs a message, queues it for the UI and sends warnings and errors
// as desktop notifications.
func (a *App) notice(sev Severity, title, message string) {
	switch sev {
	case SeverityError:
		a.logger.Error(message, "title", title)
	case SeverityWarning:
		a.logger.Warn(message, "title", title)
	default:
		a.logger.Info(message, "title", title)
	}

	a.post(NoticeEvent{Severity: sev, Title: title, Message: message})

	if sev >= SeverityWarning && a.notifier != nil {
		n := a.notifier
		go func() {
			if err := n.Notify(title, message); err != nil {
				a.logger.Debug("Desktop notification failed", "error", err)
			}
		}()
	}
}

// fail reports an error and returns the capture slot to idle
func (a *App) fail(title, message string, err error) {
	a.state.Transition(StateError)
	a.notice(SeverityError, title, fmt.Sprintf("%s: %v", message, err))
	a.state.Transition(StateIdle)
}

func (a *App) taskDone(t *Task) {
	err := t.Err()
	took := time.Since(t.Started()).Round(time.Millisecond).String()
	if err != nil {
		a.logger.Debug("Task finished with error", "id", t.ID(), "kind", t.Kind().String(), "took", took, "error", err)
	} else {
		a.logger.Debug("Task finished", "id", t.ID(), "kind", t.Kind().String(), "took", took)
	}
	a.post(TaskDoneEvent{ID: t.ID(), Kind: t.Kind(), Err: err})
}

// StartRecording starts capturing into <name>.wav. An empty name uses the
// timestamped default name. It returns the destination path.
func (a *App) StartRecording(name string) (string, error) {
	if a.backend == nil {
		return "", ErrAudioUnavailable
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = library.DefaultName(time.Now())
	}
	path, err := a.library.PathFor(name)
	if err != nil {
		return "", err
	}

	if !a.state.Transition(StateRecording) {
		return "", fmt.Errorf("%w: %s", ErrBusy, a.state.Current())
	}

	device := a.session.Device()
	if _, err := a.session.Start(TaskRecord, func(ctx context.Context) error {
		return a.record(ctx, device, path)
	}); err != nil {
		a.state.Reset()
		return "", err
	}

	a.logger.Info("Recording requested", "path", path, "device", device)
	return path, nil
}

func (a *App) record(ctx context.Context, device int, path string) error {
	take, err := a.recorder.Record(ctx, audio.RecordRequest{DeviceID: device, Path: path}, audio.RecorderCallbacks{
		OnLevel:   func(level int) { a.post(LevelEvent{Kind: TaskRecord, Level: level}) },
		OnNoAudio: func() { a.post(NoAudioEvent{}) },
	})

	if take == nil {
		a.fail("Aufnahme", "Aufnahme konnte nicht gestartet werden", err)
		return err
	}

	// Stopped by shutdown or a read error rather than StopRecording
	a.state.Transition(StateSaving)

	switch {
	case errors.Is(err, audio.ErrNoAudio):
		a.state.Transition(StateIdle)
		a.notice(SeverityWarning, "Aufnahme", "Keine Audiodaten aufgenommen. Es wurde keine Datei gespeichert.")
		return err
	case errors.Is(err, audio.ErrFile):
		a.fail("Aufnahme", "Aufnahme konnte nicht gespeichert werden", err)
		return err
	}

	a.post(RecordingSavedEvent{
		Name:     filepath.Base(path),
		Path:     path,
		Duration: take.Duration(),
		Chunks:   take.Len(),
	})
	if err != nil {
		a.fail("Aufnahme", "Aufnahme nach Gerätefehler gespeichert", err)
	} else {
		a.state.Transition(StateIdle)
		a.notice(SeverityInfo, "Aufnahme", "Aufnahme gespeichert: "+filepath.Base(path))
	}
	a.refreshRecordings()
	return err
}

// StopRecording ends the running recording. The file is written in the
// background; completion arrives as RecordingSavedEvent.
func (a *App) StopRecording() error {
	t := a.session.Active(SlotCapture)
	if t == nil || t.Kind() != TaskRecord {
		return ErrNotRecording
	}
	elapsed := a.state.StateDuration()
	a.state.Transition(StateSaving)
	a.session.Stop(SlotCapture)
	a.logger.Info("Recording stop requested", "task", t.ID(), "elapsed", elapsed.Round(time.Second).String())
	return nil
}

// ToggleRecording stops a running recording or starts a new one
func (a *App) ToggleRecording(name string) error {
	if t := a.session.Active(SlotCapture); t != nil && t.Kind() == TaskRecord {
		return a.StopRecording()
	}
	_, err := a.StartRecording(name)
	return err
}

// Recording reports whether a recording is running
func (a *App) Recording() bool {
	t := a.session.Active(SlotCapture)
	return t != nil && t.Kind() == TaskRecord
}

// TestMicrophone runs a timed level test on the selected input device
func (a *App) TestMicrophone() error {
	if a.backend == nil {
		return ErrAudioUnavailable
	}
	if !a.state.Transition(StateTesting) {
		return fmt.Errorf("%w: %s", ErrBusy, a.state.Current())
	}

	device := a.session.Device()
	_, err := a.session.Start(TaskMicTest, func(ctx context.Context) error {
		err := a.recorder.Probe(ctx, device, a.probe, func(level int) {
			a.post(LevelEvent{Kind: TaskMicTest, Level: level})
		})
		if err != nil {
			a.fail("Mikrofontest", "Mikrofontest fehlgeschlagen", err)
			return err
		}
		a.state.Transition(StateIdle)
		a.notice(SeverityInfo, "Mikrofontest", "Mikrofontest abgeschlossen")
		return nil
	})
	if err != nil {
		a.state.Reset()
		return err
	}
	return nil
}

// Speak speaks text at rate words per minute in the background
func (a *App) Speak(text string, rate int) error {
	if strings.TrimSpace(text) == "" {
		a.logger.Warn("Speech requested without text")
		return speech.ErrEmptyText
	}
	if a.speaker.Engine() == nil {
		return speech.ErrNoEngine
	}
	rate = speech.ClampRate(rate)

	_, err := a.session.Start(TaskSpeech, func(ctx context.Context) error {
		voice, err := a.speaker.Speak(ctx, speech.Request{Text: text, Rate: rate})
		if err != nil {
			if ctx.Err() == nil {
				a.notice(SeverityError, "Sprachausgabe", "Fehler bei der Sprachausgabe: "+err.Error())
			}
			return err
		}
		a.logger.Info("Speech finished", "voice", voice.String(), "rate", rate)
		return nil
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	changed := a.rate != rate
	a.rate = rate
	a.mu.Unlock()
	if changed {
		a.saveSettings()
	}
	return nil
}

// Speaking reports whether speech synthesis is running
func (a *App) Speaking() bool {
	return a.session.Busy(SlotSpeech)
}

// SpeechRate returns the last used speech rate
func (a *App) SpeechRate() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rate
}

// SetVoiceHint changes the preferred voice and saves it
func (a *App) SetVoiceHint(hint string) {
	a.speaker.SetVoiceHint(strings.TrimSpace(hint))
	a.saveSettings()
}

// VoiceHint returns the preferred voice hint
func (a *App) VoiceHint() string {
	return a.speaker.VoiceHint()
}

// EngineName returns the name of the speech engine or "-"
func (a *App) EngineName() string {
	if a.speaker == nil || a.speaker.Engine() == nil {
		return "-"
	}
	return a.speaker.Engine().Name()
}

// Play plays a recording from the library in the background
func (a *App) Play(file string) error {
	if file == "" {
		return ErrNoSelection
	}
	path, err := a.library.Resolve(file)
	if err != nil {
		return err
	}
	if a.backend == nil {
		return ErrAudioUnavailable
	}

	_, err = a.session.Start(TaskPlayback, func(ctx context.Context) error {
		if err := a.player.Play(ctx, path); err != nil {
			if ctx.Err() == nil {
				a.notice(SeverityError, "Wiedergabe", "Fehler beim Abspielen: "+err.Error())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.logger.Info("Playback requested", "file", file)
	return nil
}

// Playing reports whether a recording is being played
func (a *App) Playing() bool {
	return a.session.Busy(SlotPlayback)
}

// Delete removes a recording and refreshes the list
func (a *App) Delete(file string) error {
	if file == "" {
		return ErrNoSelection
	}
	if err := a.library.Delete(file); err != nil {
		a.logger.Warn("Failed to delete recording", "file", file, "error", err)
		return err
	}
	a.notice(SeverityInfo, "Aufnahmen", "Aufnahme gelöscht: "+file)
	a.refreshRecordings()
	return nil
}

// Recordings lists the saved recordings
func (a *App) Recordings() ([]library.Recording, error) {
	return a.library.List()
}

// RecordingsDir returns the recordings directory
func (a *App) RecordingsDir() string {
	return a.library.Dir()
}

func (a *App) refreshRecordings() {
	recs, err := a.library.List()
	if err != nil {
		a.logger.Error("Failed to list recordings", "error", err)
		return
	}
	a.post(RecordingsChangedEvent{Recordings: recs})
}

// RunWatcher refreshes the recordings list on directory changes until ctx
// is cancelled. Without a watcher the list is only refreshed by the app.
func (a *App) RunWatcher(ctx context.Context) error {
	if err := a.library.Watch(ctx, a.refreshRecordings); err != nil {
		a.logger.Warn("Recordings directory is not watched", "dir", a.library.Dir(), "error", err)
	}
	return nil
}

func (a *App) loadDevices() error {
	devices, err := a.backend.InputDevices()
	if err != nil {
		return err
	}
	in, out, err := a.backend.DefaultDevices()
	if err != nil {
		a.logger.Warn("Failed to get default devices", "error", err)
	}

	a.mu.Lock()
	a.devices = devices
	a.defaultInput = in
	a.defaultOutput = out
	a.mu.Unlock()

	a.logger.Info("Input devices enumerated", "count", len(devices), "default_input", in, "default_output", out)
	return nil
}

func (a *App) hasDevice(id int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, d := range a.devices {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Devices returns the input devices of the last enumeration
func (a *App) Devices() []audio.DeviceInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]audio.DeviceInfo(nil), a.devices...)
}

// DefaultDevices returns the names of the default input and output devices
func (a *App) DefaultDevices() (input, output string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.defaultInput, a.defaultOutput
}

// RefreshDevices enumerates the input devices again
func (a *App) RefreshDevices() ([]audio.DeviceInfo, error) {
	if a.backend == nil {
		return nil, ErrAudioUnavailable
	}
	if err := a.loadDevices(); err != nil {
		a.logger.Error("Failed to enumerate input devices", "error", err)
		return nil, err
	}

	devices := a.Devices()
	in, out := a.DefaultDevices()
	a.post(DevicesEvent{Devices: devices, DefaultInput: in, DefaultOutput: out})
	a.notice(SeverityInfo, "Einstellungen", fmt.Sprintf("Geräteliste aktualisiert: %d Eingabegeräte", len(devices)))
	return devices, nil
}

// SelectedDevice returns the selected input device (-1 = default)
func (a *App) SelectedDevice() int {
	return a.session.Device()
}

// SelectDevice selects the input device for the next recording. -1 selects
// the system default.
func (a *App) SelectDevice(id int) error {
	if id < -1 || (id >= 0 && !a.hasDevice(id)) {
		return fmt.Errorf("%w: unknown input device %d", audio.ErrDevice, id)
	}
	if a.session.Device() == id {
		return nil
	}
	a.session.SetDevice(id)
	a.logger.Info("Input device selected", "device", id)
	a.saveSettings()
	return nil
}

// DebugLogging reports whether all subsystems log at debug level
func (a *App) DebugLogging() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.debugLog
}

// SetDebugLogging switches all subsystems to debug level, or back to the
// configured level string
func (a *App) SetDebugLogging(on bool) error {
	level := a.cfg.General.LogLevel
	if on {
		level = "debug"
	}
	if a.logs != nil {
		if err := a.logs.SetLevel(level); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.debugLog = on
	a.mu.Unlock()
	a.logger.Info("Log level changed", "level", level)
	return nil
}

// State returns the capture state
func (a *App) State() State {
	return a.state.Current()
}

func (a *App) saveSettings() {
	if a.settingsPath == "" {
		return
	}
	device := a.session.Device()
	s := Settings{
		InputDevice: &device,
		SpeechRate:  a.SpeechRate(),
		VoiceHint:   a.speaker.VoiceHint(),
	}
	if err := SaveSettings(a.settingsPath, s); err != nil {
		a.logger.Warn("Failed to save settings", "path", a.settingsPath, "error", err)
		return
	}
	a.logger.Debug("Settings saved", "path", a.settingsPath)
}

// Close stops all tasks, waits for them and releases the audio system. A
// running recording is still written.
func (a *App) Close(ctx context.Context) error {
	var err error
	a.closeOnce.Do(func() {
		a.logger.Info("Shutting down")
		a.cancel()
		err = a.session.Shutdown(ctx)
		if a.backend != nil {
			if cerr := a.backend.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	})
	return err
}
