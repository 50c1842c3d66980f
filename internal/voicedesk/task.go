package voicedesk

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Slot is an exclusive resource. Only one task per slot runs at a time.
type Slot int

const (
	// SlotCapture is the input device (recording and microphone test)
	SlotCapture Slot = iota

	// SlotPlayback is playback of recordings
	SlotPlayback

	// SlotSpeech is speech synthesis
	SlotSpeech
)

func (s Slot) String() string {
	switch s {
	case SlotCapture:
		return "capture"
	case SlotPlayback:
		return "playback"
	case SlotSpeech:
		return "speech"
	default:
		return "unknown"
	}
}

// TaskKind identifies what a task does
type TaskKind int

const (
	TaskRecord TaskKind = iota
	TaskMicTest
	TaskPlayback
	TaskSpeech
)

func (k TaskKind) String() string {
	switch k {
	case TaskRecord:
		return "record"
	case TaskMicTest:
		return "mictest"
	case TaskPlayback:
		return "playback"
	case TaskSpeech:
		return "speech"
	default:
		return "unknown"
	}
}

// Slot returns the slot a task of this kind occupies
func (k TaskKind) Slot() Slot {
	switch k {
	case TaskPlayback:
		return SlotPlayback
	case TaskSpeech:
		return SlotSpeech
	default:
		return SlotCapture
	}
}

// Task is a handle for a background operation
type Task struct {
	id      string
	kind    TaskKind
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

func newTask(kind TaskKind, cancel context.CancelFunc) *Task {
	return &Task{
		id:      uuid.New().String(),
		kind:    kind,
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// ID returns the unique task ID
func (t *Task) ID() string {
	return t.id
}

// Kind returns the task kind
func (t *Task) Kind() TaskKind {
	return t.kind
}

// Started returns when the task was started
func (t *Task) Started() time.Time {
	return t.started
}

// Cancel asks the task to stop. The task observes it at its next check.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed when the task has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has finished and returns its error
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Err returns the task error once finished, nil while running
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
