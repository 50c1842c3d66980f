package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/voicedesk/internal/voicedesk"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(16)

	// Box styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2)

	LogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	// Status styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError)

	RecordingStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	// Menu styles
	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				PaddingLeft(2)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	// Input style
	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)

	// Modal styles
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 3).
			Width(56)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)
)

// severityColor returns the accent color of a notice
func severityColor(sev voicedesk.Severity) lipgloss.Color {
	switch sev {
	case voicedesk.SeverityError:
		return colorError
	case voicedesk.SeverityWarning:
		return colorAccent
	default:
		return colorSecondary
	}
}

// stateStyle returns the style of the status line for a capture state
func stateStyle(s voicedesk.State) lipgloss.Style {
	switch s {
	case voicedesk.StateRecording:
		return RecordingStyle
	case voicedesk.StateSaving, voicedesk.StateTesting:
		return StatusWarnStyle
	case voicedesk.StateError:
		return StatusErrorStyle
	default:
		return StatusOKStyle
	}
}

// RenderHelp renders a key hint line
func RenderHelp(help string) string {
	return HelpStyle.Render(help)
}
