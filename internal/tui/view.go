package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/voicedesk/internal/voicedesk"
)

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade..."
	}

	if len(m.notices) > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderNotice(m.notices[0]))
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")

	switch m.tab {
	case TabRecord:
		s.WriteString(m.renderRecordView())
	case TabSpeech:
		s.WriteString(m.renderSpeechView())
	case TabRecordings:
		s.WriteString(m.renderRecordingsView())
	case TabSettings:
		s.WriteString(m.renderSettingsView())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m Model) renderHeader() string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		if i == m.tab {
			tabs = append(tabs, ActiveTabStyle.Render(i.String()))
		} else {
			tabs = append(tabs, TabStyle.Render(i.String()))
		}
	}

	title := TitleStyle.Render(voicedesk.AppName)
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderRecordView() string {
	var s strings.Builder

	status := fmt.Sprintf("%s %s", m.state.Icon(), m.state.String())
	s.WriteString(stateStyle(m.state).Render(status))
	if m.state == voicedesk.StateRecording {
		s.WriteString("  ")
		s.WriteString(RecordingStyle.Render(formatElapsed(m.elapsed)))
	}
	s.WriteString("\n")
	if m.status != "" {
		s.WriteString(SubtitleStyle.Render(m.status))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(LabelStyle.Render("Dateiname"))
	s.WriteString(FocusedInputStyle.Render(m.nameInput.View()))
	s.WriteString("\n")

	label := "Pegel"
	if m.levelKind == voicedesk.TaskMicTest && m.state == voicedesk.StateTesting {
		label = "Mikrofontest"
	}
	s.WriteString(LabelStyle.Render(label))
	s.WriteString(m.levelBar.ViewAs(float64(m.level) / 100))
	s.WriteString(fmt.Sprintf(" %3d", m.level))
	if m.noAudio && m.state == voicedesk.StateRecording {
		s.WriteString("  ")
		s.WriteString(StatusWarnStyle.Render("kein Signal"))
	}
	s.WriteString("\n\n")

	s.WriteString(SubtitleStyle.Render("Protokoll"))
	s.WriteString("\n")
	s.WriteString(LogBoxStyle.Render(m.logView.View()))
	return s.String()
}

func (m Model) renderSpeechView() string {
	var s strings.Builder
	s.WriteString(SubtitleStyle.Render("Text-zu-Sprache"))
	s.WriteString("\n\n")
	s.WriteString(FocusedInputStyle.Render(m.speechInput.View()))
	s.WriteString("\n\n")

	s.WriteString(LabelStyle.Render("Sprechtempo"))
	s.WriteString(fmt.Sprintf("%d Wörter/min", m.rate))
	s.WriteString("\n")
	s.WriteString(LabelStyle.Render("Engine"))
	s.WriteString(m.app.EngineName())
	s.WriteString("\n\n")

	button := "[ Sprechen ]"
	if m.speaking {
		button = StatusWarnStyle.Render("[ läuft... ]")
	}
	s.WriteString(button)
	return BoxStyle.Render(s.String())
}

func (m Model) renderRecordingsView() string {
	var s strings.Builder
	s.WriteString(m.recList.View())
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Verzeichnis: " + m.app.RecordingsDir()))
	return s.String()
}

func (m Model) renderSettingsView() string {
	var s strings.Builder
	s.WriteString(SubtitleStyle.Render("Eingabegerät"))
	s.WriteString("\n\n")

	rows := make([]string, 0, len(m.devices)+1)
	rows = append(rows, m.deviceRow("Standardgerät des Systems", m.selectedDevice == -1))
	for _, d := range m.devices {
		rows = append(rows, m.deviceRow(d.String(), m.selectedDevice == d.ID))
	}
	for i, row := range rows {
		if i == m.deviceCursor {
			s.WriteString(SelectedMenuItemStyle.Render("> " + row))
		} else {
			s.WriteString(MenuItemStyle.Render("  " + row))
		}
		s.WriteString("\n")
	}
	if len(m.devices) == 0 {
		s.WriteString(StatusWarnStyle.Render("  Keine Eingabegeräte gefunden"))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(LabelStyle.Render("Standard-Eingang"))
	s.WriteString(orDash(m.defaultInput))
	s.WriteString("\n")
	s.WriteString(LabelStyle.Render("Standard-Ausgang"))
	s.WriteString(orDash(m.defaultOutput))
	s.WriteString("\n\n")
	s.WriteString(LabelStyle.Render("Debug-Logging"))
	if m.debugLog {
		s.WriteString(StatusWarnStyle.Render("an"))
	} else {
		s.WriteString("aus")
	}
	return BoxStyle.Render(s.String())
}

func (m Model) deviceRow(name string, selected bool) string {
	if selected {
		return "(•) " + name
	}
	return "( ) " + name
}

func (m Model) renderNotice(n voicedesk.NoticeEvent) string {
	color := severityColor(n.Severity)
	title := ModalTitleStyle.Foreground(color).Render(fmt.Sprintf("%s: %s", n.Severity, n.Title))
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		n.Message,
		RenderHelp("Enter: Schließen"),
	)
	return ModalStyle.BorderForeground(color).Render(body)
}

func (m Model) helpText() string {
	switch m.tab {
	case TabRecord:
		return "Enter: Aufnahme starten/stoppen • Ctrl+T: Mikrofontest • Tab: Wechseln • Ctrl+C: Beenden"
	case TabSpeech:
		return "Ctrl+S: Sprechen • Ctrl+←/→: Tempo ±10 • Tab: Wechseln • Ctrl+C: Beenden"
	case TabRecordings:
		return "Enter: Abspielen • D: Löschen • R: Aktualisieren • Tab: Wechseln • Ctrl+C: Beenden"
	case TabSettings:
		return "↑/↓: Auswählen • Enter: Übernehmen • R: Geräte aktualisieren • L: Debug-Logging • Tab: Wechseln"
	}
	return ""
}

func (m Model) renderFooter() string {
	help := m.helpText()
	info := "Engine: " + m.app.EngineName()
	if m.opts.Hotkey != "" {
		info += " • Hotkey: " + m.opts.Hotkey
	}
	gap := max(1, m.width-lipgloss.Width(help)-lipgloss.Width(info)-2)
	return StatusBarStyle.Width(m.width).Render(help + strings.Repeat(" ", gap) + info)
}

func formatElapsed(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
