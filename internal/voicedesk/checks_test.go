package voicedesk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/msto63/voicedesk/pkg/core/health"
)

func TestAudioCheck(t *testing.T) {
	tests := []struct {
		name    string
		backend audio.Backend
		want    health.Status
	}{
		{"no backend", nil, health.StatusUnhealthy},
		{"no input devices", &testBackend{}, health.StatusDegraded},
		{"devices", &testBackend{devices: []audio.DeviceInfo{{ID: 0, Name: "Mikrofon", InputChannels: 1}}}, health.StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AudioCheck(tt.backend).Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", result.Status, tt.want, result.Message)
			}
		})
	}
}

func TestSpeechCheck(t *testing.T) {
	if got := SpeechCheck(nil).Check(context.Background()); got.Status != health.StatusDegraded {
		t.Errorf("nil engine Status = %v, want degraded", got.Status)
	}
	got := SpeechCheck(&testEngine{}).Check(context.Background())
	if got.Status != health.StatusHealthy || got.Message != "test, 1 Stimmen" {
		t.Errorf("Check() = %+v", got)
	}
}

func TestRecordingsCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recordings")
	if got := RecordingsCheck(dir).Check(context.Background()); got.Status != health.StatusHealthy {
		t.Fatalf("Status = %v (%s)", got.Status, got.Message)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("check left %d files behind", len(entries))
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := RecordingsCheck(file).Check(context.Background()); got.Status != health.StatusUnhealthy {
		t.Errorf("Status for a file = %v, want unhealthy", got.Status)
	}
}

func TestNewSystemCheck(t *testing.T) {
	cfg := testConfig(t)
	report := NewSystemCheck(cfg, nil, &testEngine{}).Check(context.Background())

	if len(report.Checks) != 4 {
		t.Fatalf("Checks = %d, want 4", len(report.Checks))
	}
	if report.Status != health.StatusUnhealthy {
		t.Errorf("Status without audio = %v, want unhealthy", report.Status)
	}

	cfg.Speech.Rate = 1000
	report = NewSystemCheck(cfg, &testBackend{devices: []audio.DeviceInfo{{ID: 0, InputChannels: 1}}}, &testEngine{}).Check(context.Background())
	for _, c := range report.Checks {
		if c.Name == "config" && c.Status != health.StatusUnhealthy {
			t.Errorf("config check = %v, want unhealthy", c.Status)
		}
	}
}
