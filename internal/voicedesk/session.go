package voicedesk

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrBusy is returned when the slot of a task is occupied
	ErrBusy = errors.New("operation already running")

	// ErrClosed is returned after Shutdown
	ErrClosed = errors.New("session closed")
)

// Session owns the mutable state shared by background tasks: the selected
// input device and the active task per slot.
type Session struct {
	ctx    context.Context
	onDone func(*Task)

	mu     sync.Mutex
	device int
	active map[Slot]*Task
	closed bool
	wg     sync.WaitGroup
}

// NewSession creates a session. Tasks derive their context from ctx. onDone
// runs after a task finished and released its slot.
func NewSession(ctx context.Context, device int, onDone func(*Task)) *Session {
	return &Session{
		ctx:    ctx,
		onDone: onDone,
		device: device,
		active: make(map[Slot]*Task),
	}
}

// Device returns the selected input device (-1 = default)
func (s *Session) Device() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device
}

// SetDevice selects the input device for the next capture
func (s *Session) SetDevice(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = id
}

// Start runs fn in a new task. It fails with ErrBusy when the slot of kind
// is occupied.
func (s *Session) Start(kind TaskKind, fn func(ctx context.Context) error) (*Task, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	slot := kind.Slot()
	if cur := s.active[slot]; cur != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s (%s)", ErrBusy, slot, cur.Kind())
	}

	ctx, cancel := context.WithCancel(s.ctx)
	task := newTask(kind, cancel)
	s.active[slot] = task
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		task.err = fn(ctx)

		s.mu.Lock()
		if s.active[slot] == task {
			delete(s.active, slot)
		}
		s.mu.Unlock()

		close(task.done)
		if s.onDone != nil {
			s.onDone(task)
		}
	}()

	return task, nil
}

// Active returns the task running in slot, or nil
func (s *Session) Active(slot Slot) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[slot]
}

// Busy reports whether slot is occupied
func (s *Session) Busy(slot Slot) bool {
	return s.Active(slot) != nil
}

// Stop cancels the task in slot and returns it without waiting
func (s *Session) Stop(slot Slot) *Task {
	t := s.Active(slot)
	if t != nil {
		t.Cancel()
	}
	return t
}

// Shutdown refuses new tasks, cancels all running ones and waits until they
// finished or ctx expires.
func (s *Session) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for _, t := range s.active {
		t.Cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for tasks: %w", ctx.Err())
	}
}
