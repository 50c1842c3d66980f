// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     voicedesk
// Description: Capture state machine
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package voicedesk

import (
	"sync"
	"time"
)

// State represents the state of the capture slot
type State int

const (
	// StateIdle - Ready for recording or microphone test
	StateIdle State = iota

	// StateRecording - Capturing audio
	StateRecording

	// StateSaving - Stream closing and file being written
	StateSaving

	// StateTesting - Microphone test running
	StateTesting

	// StateError - Error state
	StateError
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Bereit"
	case StateRecording:
		return "Aufnahme läuft..."
	case StateSaving:
		return "Speichere..."
	case StateTesting:
		return "Mikrofontest..."
	case StateError:
		return "Fehler"
	default:
		return "Unbekannt"
	}
}

// Icon returns an icon for the state
func (s State) Icon() string {
	switch s {
	case StateIdle:
		return "⏸"
	case StateRecording:
		return "🔴"
	case StateSaving:
		return "💾"
	case StateTesting:
		return "🎤"
	case StateError:
		return "❌"
	default:
		return "?"
	}
}

// StateMachine manages state transitions
type StateMachine struct {
	mu           sync.RWMutex
	currentState State
	stateTime    time.Time
	listeners    []StateChangeListener
}

// StateChangeListener is called when state changes
type StateChangeListener func(oldState, newState State)

// validTransitions lists the allowed targets per state
var validTransitions = map[State][]State{
	StateIdle:      {StateRecording, StateTesting, StateError},
	StateRecording: {StateSaving, StateIdle, StateError},
	StateSaving:    {StateIdle, StateError},
	StateTesting:   {StateIdle, StateError},
	StateError:     {StateIdle},
}

// NewStateMachine creates a new state machine
func NewStateMachine() *StateMachine {
	return &StateMachine{
		currentState: StateIdle,
		stateTime:    time.Now(),
	}
}

// Current returns the current state
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// StateDuration returns how long we've been in the current state
func (sm *StateMachine) StateDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return time.Since(sm.stateTime)
}

// Transition changes to a new state. It returns false for transitions that
// are not allowed.
func (sm *StateMachine) Transition(newState State) bool {
	sm.mu.Lock()
	oldState := sm.currentState

	if !isValidTransition(oldState, newState) {
		sm.mu.Unlock()
		return false
	}

	sm.currentState = newState
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	// Notify listeners
	for _, listener := range listeners {
		listener(oldState, newState)
	}

	return true
}

// AddListener adds a state change listener
func (sm *StateMachine) AddListener(listener StateChangeListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

func isValidTransition(from, to State) bool {
	for _, valid := range validTransitions[from] {
		if valid == to {
			return true
		}
	}
	return false
}

// Reset returns the state machine to idle
func (sm *StateMachine) Reset() {
	sm.mu.Lock()
	oldState := sm.currentState
	if oldState == StateIdle {
		sm.mu.Unlock()
		return
	}
	sm.currentState = StateIdle
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, StateIdle)
	}
}
