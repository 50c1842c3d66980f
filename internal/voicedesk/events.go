package voicedesk

import (
	"time"

	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/msto63/voicedesk/internal/voicedesk/library"
)

// Event is posted by background tasks and consumed by the UI goroutine
type Event interface {
	event()
}

// Severity of a notice
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warnung"
	case SeverityError:
		return "Fehler"
	default:
		return "Unbekannt"
	}
}

// LevelEvent carries the loudness of the last chunk (0..100)
type LevelEvent struct {
	Kind  TaskKind
	Level int
}

// StateEvent reports a capture state change
type StateEvent struct {
	From, To State
}

// NoticeEvent is shown to the user as a modal notification
type NoticeEvent struct {
	Severity Severity
	Title    string
	Message  string
}

// NoAudioEvent reports a run of silent chunks during a recording
type NoAudioEvent struct{}

// RecordingSavedEvent reports a written recording
type RecordingSavedEvent struct {
	Name     string
	Path     string
	Duration time.Duration
	Chunks   int
}

// TaskDoneEvent reports a finished background task
type TaskDoneEvent struct {
	ID   string
	Kind TaskKind
	Err  error
}

// RecordingsChangedEvent carries the current recordings list
type RecordingsChangedEvent struct {
	Recordings []library.Recording
}

// DevicesEvent carries a refreshed device list
type DevicesEvent struct {
	Devices       []audio.DeviceInfo
	DefaultInput  string
	DefaultOutput string
}

// HotkeyEvent reports the global recording hotkey
type HotkeyEvent struct{}

func (LevelEvent) event()             {}
func (StateEvent) event()             {}
func (NoticeEvent) event()            {}
func (NoAudioEvent) event()           {}
func (RecordingSavedEvent) event()    {}
func (TaskDoneEvent) event()          {}
func (RecordingsChangedEvent) event() {}
func (DevicesEvent) event()           {}
func (HotkeyEvent) event()            {}
