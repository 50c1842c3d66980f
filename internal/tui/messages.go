// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     tui
// Description: Message types for async operations in the terminal UI
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/msto63/voicedesk/internal/voicedesk"
)

// appEventMsg carries an event from the application core
type appEventMsg struct {
	event voicedesk.Event
}

// logLineMsg is sent for each line written by the log backend
type logLineMsg string

// tickMsg drives the elapsed recording timer
type tickMsg time.Time

// waitForEvent reads the next event from the application core
func waitForEvent(events <-chan voicedesk.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return appEventMsg{event: ev}
	}
}

// waitForLogLine reads the next log line
func waitForLogLine(lines <-chan string) tea.Cmd {
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return nil
		}
		return logLineMsg(line)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
