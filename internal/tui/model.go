// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     tui
// Description: Terminal UI with recording, speech, library and settings tabs
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/msto63/voicedesk/internal/voicedesk"
	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/msto63/voicedesk/internal/voicedesk/library"
	"github.com/msto63/voicedesk/internal/voicedesk/speech"
)

// Tab represents the tabs of the main window
type Tab int

const (
	TabRecord Tab = iota
	TabSpeech
	TabRecordings
	TabSettings
)

const tabCount = 4

var tabNames = [tabCount]string{"Aufnahme", "Sprachausgabe", "Aufnahmen", "Einstellungen"}

func (t Tab) String() string {
	if t < 0 || int(t) >= tabCount {
		return "?"
	}
	return tabNames[t]
}

const (
	maxLogLines = 500
	rateStep    = 10
)

const noAudioStatus = "Kein Audio erkannt. Bitte das Mikrofon überprüfen."


// Controller is the application core as seen by the UI
type Controller interface {
	Events() <-chan voicedesk.Event
	State() voicedesk.State

	StartRecording(name string) (string, error)
	StopRecording() error
	Recording() bool
	TestMicrophone() error

	Speak(text string, rate int) error
	SpeechRate() int
	EngineName() string

	Play(file string) error
	Delete(file string) error
	Recordings() ([]library.Recording, error)
	RecordingsDir() string

	Devices() []audio.DeviceInfo
	DefaultDevices() (input, output string)
	RefreshDevices() ([]audio.DeviceInfo, error)
	SelectedDevice() int
	SelectDevice(id int) error

	DebugLogging() bool
	SetDebugLogging(on bool) error
}

// Options configures the UI
type Options struct {
	// LogLines feeds the log panel
	LogLines <-chan string

	// Hotkey is shown in the footer. Empty when the hotkey is disabled.
	Hotkey string

	// Now defaults to time.Now
	Now func() time.Time
}

// recordingItem adapts a recording to the list component
type recordingItem struct {
	rec library.Recording
}

func (i recordingItem) Title() string { return i.rec.Name }

func (i recordingItem) Description() string {
	return fmt.Sprintf("%s  %s", formatSize(i.rec.Size), i.rec.ModTime.Format("02.01.2006 15:04"))
}

func (i recordingItem) FilterValue() string { return i.rec.Name }

// Model is the main TUI model
type Model struct {
	app  Controller
	opts Options
	now  func() time.Time

	// State
	tab    Tab
	width  int
	height int
	ready  bool

	// Recording tab
	state      voicedesk.State
	recStarted time.Time
	elapsed    time.Duration
	level      int
	levelKind  voicedesk.TaskKind
	noAudio    bool
	status     string
	nameInput  textinput.Model
	levelBar   progress.Model
	logView    viewport.Model
	logLines   []string

	// Speech tab
	speechInput textarea.Model
	rate        int
	speaking    bool

	// Recordings tab
	recList list.Model

	// Settings tab
	devices        []audio.DeviceInfo
	deviceCursor   int
	selectedDevice int
	defaultInput   string
	defaultOutput  string
	debugLog       bool

	// Pending notices, the first one is shown as a modal
	notices []voicedesk.NoticeEvent
}

// NewModel creates a new TUI model
func NewModel(app Controller, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Dateiname"
	ti.CharLimit = 120
	ti.Width = 40
	ti.SetValue(library.DefaultName(now()))
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Text für die Sprachausgabe eingeben..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(6)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	delegate := list.NewDefaultDelegate()
	rl := list.New(nil, delegate, 80, 20)
	rl.Title = "Aufnahmen"
	rl.SetShowHelp(false)
	rl.SetFilteringEnabled(false)
	rl.SetStatusBarItemName("Aufnahme", "Aufnahmen")

	m := Model{
		app:            app,
		opts:           opts,
		now:            now,
		tab:            TabRecord,
		state:          app.State(),
		nameInput:      ti,
		levelBar:       bar,
		logView:        viewport.New(80, 8),
		speechInput:    ta,
		rate:           app.SpeechRate(),
		recList:        rl,
		selectedDevice: app.SelectedDevice(),
		debugLog:       app.DebugLogging(),
	}

	m.setDevices(app.Devices())
	m.defaultInput, m.defaultOutput = app.DefaultDevices()
	if recs, err := app.Recordings(); err == nil {
		m.setRecordings(recs)
	} else {
		m.status = "Aufnahmen konnten nicht gelesen werden: " + err.Error()
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForEvent(m.app.Events()),
		waitForLogLine(m.opts.LogLines),
		tick(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.updateElapsed()
		return m, tick()

	case appEventMsg:
		m.handleEvent(msg.event)
		return m, waitForEvent(m.app.Events())

	case logLineMsg:
		m.appendLog(string(msg))
		return m, waitForLogLine(m.opts.LogLines)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.logView.Width = max(20, width-6)
	m.logView.Height = max(3, height-20)
	m.levelBar.Width = min(60, max(10, width-24))
	m.speechInput.SetWidth(max(20, width-8))
	m.recList.SetSize(max(20, width-4), max(5, height-8))
}

// handleEvent applies an event from the application core
func (m *Model) handleEvent(ev voicedesk.Event) {
	switch ev := ev.(type) {
	case voicedesk.LevelEvent:
		m.level = ev.Level
		m.levelKind = ev.Kind

	case voicedesk.StateEvent:
		m.state = ev.To
		switch ev.To {
		case voicedesk.StateRecording:
			m.recStarted = m.now()
			m.elapsed = 0
			m.noAudio = false
			m.status = ""
		case voicedesk.StateIdle:
			m.level = 0
		}

	case voicedesk.NoticeEvent:
		m.pushNotice(ev)

	case voicedesk.NoAudioEvent:
		// Repeats while the input stays silent, so it must not block the keys
		m.noAudio = true
		m.status = noAudioStatus
		m.appendLog(m.now().Format("15:04:05") + " " + noAudioStatus)

	case voicedesk.RecordingSavedEvent:
		m.status = fmt.Sprintf("Aufnahme beendet: %s (%s)", ev.Name, formatElapsed(ev.Duration))
		m.nameInput.SetValue(library.DefaultName(m.now()))

	case voicedesk.TaskDoneEvent:
		switch ev.Kind {
		case voicedesk.TaskSpeech:
			m.speaking = false
		case voicedesk.TaskMicTest:
			m.level = 0
		}

	case voicedesk.RecordingsChangedEvent:
		m.setRecordings(ev.Recordings)

	case voicedesk.DevicesEvent:
		m.setDevices(ev.Devices)
		m.defaultInput = ev.DefaultInput
		m.defaultOutput = ev.DefaultOutput

	case voicedesk.HotkeyEvent:
		m.status = "Hotkey " + m.opts.Hotkey
	}
}

// pushNotice queues a notice unless the same one is already pending
func (m *Model) pushNotice(n voicedesk.NoticeEvent) {
	for _, p := range m.notices {
		if p == n {
			return
		}
	}
	m.notices = append(m.notices, n)
}

func (m *Model) noticeFromError(title string, err error) {
	sev := voicedesk.SeverityError
	if isUserError(err) {
		sev = voicedesk.SeverityWarning
	}
	m.pushNotice(voicedesk.NoticeEvent{Severity: sev, Title: title, Message: describeError(err)})
}

func (m *Model) updateElapsed() {
	if m.state == voicedesk.StateRecording && !m.recStarted.IsZero() {
		m.elapsed = m.now().Sub(m.recStarted)
	}
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	atBottom := m.logView.AtBottom()
	m.logView.SetContent(joinLines(m.logLines))
	if atBottom {
		m.logView.GotoBottom()
	}
}

func (m *Model) setRecordings(recs []library.Recording) {
	items := make([]list.Item, len(recs))
	for i, r := range recs {
		items[i] = recordingItem{rec: r}
	}
	m.recList.SetItems(items)
}

// setDevices rebuilds the device rows. Row 0 is the system default.
func (m *Model) setDevices(devices []audio.DeviceInfo) {
	m.devices = devices
	m.deviceCursor = 0
	for i, d := range devices {
		if d.ID == m.selectedDevice {
			m.deviceCursor = i + 1
		}
	}
}

// selectedRecording returns the file name of the highlighted recording
func (m Model) selectedRecording() string {
	item, ok := m.recList.SelectedItem().(recordingItem)
	if !ok {
		return ""
	}
	return item.rec.Name
}

func (m *Model) setTab(t Tab) tea.Cmd {
	m.tab = t
	m.nameInput.Blur()
	m.speechInput.Blur()

	switch t {
	case TabRecord:
		return m.nameInput.Focus()
	case TabSpeech:
		return m.speechInput.Focus()
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A modal notice takes all input until it is dismissed
	if len(m.notices) > 0 {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter", "esc", " ":
			m.notices = m.notices[1:]
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m, m.setTab((m.tab + 1) % tabCount)
	case "shift+tab":
		return m, m.setTab((m.tab + tabCount - 1) % tabCount)
	}

	switch m.tab {
	case TabRecord:
		return m.handleRecordKey(msg)
	case TabSpeech:
		return m.handleSpeechKey(msg)
	case TabRecordings:
		return m.handleRecordingsKey(msg)
	case TabSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m Model) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.app.Recording() {
			if err := m.app.StopRecording(); err != nil {
				m.noticeFromError("Aufnahme", err)
			}
			return m, nil
		}
		if _, err := m.app.StartRecording(m.nameInput.Value()); err != nil {
			m.noticeFromError("Aufnahme", err)
		}
		return m, nil

	case "ctrl+t":
		if err := m.app.TestMicrophone(); err != nil {
			m.noticeFromError("Mikrofontest", err)
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) handleSpeechKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		if m.speaking {
			return m, nil
		}
		if err := m.app.Speak(m.speechInput.Value(), m.rate); err != nil {
			m.noticeFromError("Sprachausgabe", err)
			return m, nil
		}
		m.speaking = true
		return m, nil

	case "ctrl+right", "ctrl+up":
		m.rate = speech.ClampRate(m.rate + rateStep)
		return m, nil

	case "ctrl+left", "ctrl+down":
		m.rate = speech.ClampRate(m.rate - rateStep)
		return m, nil
	}

	var cmd tea.Cmd
	m.speechInput, cmd = m.speechInput.Update(msg)
	return m, cmd
}

func (m Model) handleRecordingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "p":
		if err := m.app.Play(m.selectedRecording()); err != nil {
			m.noticeFromError("Wiedergabe", err)
		}
		return m, nil

	case "d", "delete":
		if err := m.app.Delete(m.selectedRecording()); err != nil {
			m.noticeFromError("Aufnahmen", err)
		}
		return m, nil

	case "r", "f5":
		recs, err := m.app.Recordings()
		if err != nil {
			m.noticeFromError("Aufnahmen", err)
			return m, nil
		}
		m.setRecordings(recs)
		return m, nil
	}

	var cmd tea.Cmd
	m.recList, cmd = m.recList.Update(msg)
	return m, cmd
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.deviceCursor > 0 {
			m.deviceCursor--
		}

	case "down", "j":
		if m.deviceCursor < len(m.devices) {
			m.deviceCursor++
		}

	case "enter", " ":
		id := -1
		if m.deviceCursor > 0 {
			id = m.devices[m.deviceCursor-1].ID
		}
		if err := m.app.SelectDevice(id); err != nil {
			m.noticeFromError("Einstellungen", err)
			return m, nil
		}
		m.selectedDevice = id

	case "r", "f5":
		devices, err := m.app.RefreshDevices()
		if err != nil {
			m.noticeFromError("Einstellungen", err)
			return m, nil
		}
		m.setDevices(devices)
		m.defaultInput, m.defaultOutput = m.app.DefaultDevices()

	case "l":
		if err := m.app.SetDebugLogging(!m.debugLog); err != nil {
			m.noticeFromError("Einstellungen", err)
			return m, nil
		}
		m.debugLog = !m.debugLog
	}
	return m, nil
}

// updateFocused forwards other messages (cursor blink) to the focused input
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabRecord:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case TabSpeech:
		m.speechInput, cmd = m.speechInput.Update(msg)
	}
	return m, cmd
}

// isUserError reports whether err is caused by user input rather than a fault
func isUserError(err error) bool {
	return errors.Is(err, voicedesk.ErrBusy) ||
		errors.Is(err, voicedesk.ErrNoSelection) ||
		errors.Is(err, voicedesk.ErrNotRecording) ||
		errors.Is(err, speech.ErrEmptyText) ||
		errors.Is(err, library.ErrInvalidName) ||
		errors.Is(err, library.ErrNotFound)
}

// describeError returns the German message for an action error
func describeError(err error) string {
	switch {
	case errors.Is(err, voicedesk.ErrBusy):
		return "Es läuft bereits ein Vorgang."
	case errors.Is(err, voicedesk.ErrNoSelection):
		return "Bitte zuerst eine Aufnahme auswählen."
	case errors.Is(err, voicedesk.ErrNotRecording):
		return "Es läuft keine Aufnahme."
	case errors.Is(err, voicedesk.ErrAudioUnavailable):
		return "Das Audiosystem ist nicht verfügbar."
	case errors.Is(err, speech.ErrEmptyText):
		return "Bitte einen Text eingeben."
	case errors.Is(err, speech.ErrNoEngine):
		return "Keine Sprachausgabe verfügbar."
	case errors.Is(err, library.ErrInvalidName):
		return "Ungültiger Dateiname: " + err.Error()
	case errors.Is(err, library.ErrNotFound):
		return "Die Aufnahme existiert nicht mehr."
	}
	return err.Error()
}

// Run starts the UI and blocks until it is closed or ctx is cancelled
func Run(ctx context.Context, app Controller, opts Options) error {
	p := tea.NewProgram(NewModel(app, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
