package voicedesk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSession_SlotExclusion(t *testing.T) {
	s := NewSession(context.Background(), -1, nil)

	release := make(chan struct{})
	blocker := func(ctx context.Context) error {
		<-release
		return nil
	}

	rec, err := s.Start(TaskRecord, blocker)
	if err != nil {
		t.Fatalf("Start(record) error = %v", err)
	}
	if rec.ID() == "" {
		t.Error("task has no ID")
	}
	if rec.Kind() != TaskRecord || rec.Started().IsZero() || time.Since(rec.Started()) > time.Minute {
		t.Errorf("task kind = %s, started = %v", rec.Kind(), rec.Started())
	}

	// Same slot is refused
	if _, err := s.Start(TaskMicTest, blocker); !errors.Is(err, ErrBusy) {
		t.Errorf("Start(mictest) error = %v, want ErrBusy", err)
	}
	if _, err := s.Start(TaskRecord, blocker); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start(record) error = %v, want ErrBusy", err)
	}

	// Other slots run concurrently
	play, err := s.Start(TaskPlayback, blocker)
	if err != nil {
		t.Fatalf("Start(playback) error = %v", err)
	}

	close(release)
	if err := rec.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	play.Wait()

	// Slot freed after completion
	deadline := time.Now().Add(time.Second)
	for s.Busy(SlotCapture) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	next, err := s.Start(TaskMicTest, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Start() after completion error = %v", err)
	}
	next.Wait()
}

func TestSession_StopAndErr(t *testing.T) {
	s := NewSession(context.Background(), 2, nil)

	task, err := s.Start(TaskRecord, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Err() != nil {
		t.Error("Err() of running task should be nil")
	}

	if got := s.Stop(SlotCapture); got != task {
		t.Error("Stop() returned a different task")
	}
	if err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
	if !errors.Is(task.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", task.Err())
	}
	if s.Stop(SlotSpeech) != nil {
		t.Error("Stop() of empty slot should return nil")
	}
	if s.Device() != 2 {
		t.Errorf("Device() = %d, want 2", s.Device())
	}
}

func TestSession_OnDoneAfterRelease(t *testing.T) {
	var mu sync.Mutex
	var busyInCallback bool
	done := make(chan struct{})

	var s *Session
	s = NewSession(context.Background(), -1, func(task *Task) {
		mu.Lock()
		busyInCallback = s.Busy(task.Kind().Slot())
		mu.Unlock()
		close(done)
	})

	if _, err := s.Start(TaskSpeech, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	<-done

	mu.Lock()
	defer mu.Unlock()
	if busyInCallback {
		t.Error("slot still busy when onDone ran")
	}
}

func TestSession_Shutdown(t *testing.T) {
	s := NewSession(context.Background(), -1, nil)

	var finished sync.WaitGroup
	for _, kind := range []TaskKind{TaskRecord, TaskPlayback, TaskSpeech} {
		finished.Add(1)
		if _, err := s.Start(kind, func(ctx context.Context) error {
			defer finished.Done()
			<-ctx.Done()
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	finished.Wait()

	if _, err := s.Start(TaskSpeech, func(ctx context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("Start() after Shutdown error = %v, want ErrClosed", err)
	}
}

func TestSession_ShutdownTimeout(t *testing.T) {
	s := NewSession(context.Background(), -1, nil)
	release := make(chan struct{})
	defer close(release)

	// Ignores cancellation
	if _, err := s.Start(TaskPlayback, func(ctx context.Context) error {
		<-release
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want DeadlineExceeded", err)
	}
}

func TestTaskKind_Slot(t *testing.T) {
	tests := []struct {
		kind TaskKind
		slot Slot
	}{
		{TaskRecord, SlotCapture},
		{TaskMicTest, SlotCapture},
		{TaskPlayback, SlotPlayback},
		{TaskSpeech, SlotSpeech},
	}
	for _, tt := range tests {
		if got := tt.kind.Slot(); got != tt.slot {
			t.Errorf("%s.Slot() = %s, want %s", tt.kind, got, tt.slot)
		}
	}
}
