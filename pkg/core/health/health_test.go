package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStatus_Label(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "OK"},
		{StatusDegraded, "eingeschränkt"},
		{StatusUnhealthy, "FEHLER"},
		{StatusUnknown, "unbekannt"},
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("%s.Label() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("audio", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "2 Eingabegeräte"}
	})

	if checker.Name() != "audio" {
		t.Errorf("Name() = %v, want audio", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "2 Eingabegeräte" {
		t.Errorf("Check() = %+v", result)
	}
}

func TestRegistry_Check(t *testing.T) {
	registry := NewRegistry("VoiceDesk", "1.0.0")
	registry.RegisterFunc("speech", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	registry.RegisterFunc("audio", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	report := registry.Check(context.Background())

	if report.App != "VoiceDesk" || report.Version != "1.0.0" {
		t.Errorf("report = %s", report)
	}
	if report.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("Checks count = %v, want 2", len(report.Checks))
	}
	if report.Checks[0].Name != "audio" || report.Checks[1].Name != "speech" {
		t.Errorf("checks not sorted: %s, %s", report.Checks[0].Name, report.Checks[1].Name)
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	registry := NewRegistry("VoiceDesk", "1.0.0")
	registry.RegisterFunc("audio", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	})
	registry.RegisterFunc("audio", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})

	report := registry.Check(context.Background())
	if len(report.Checks) != 1 || report.Status != StatusHealthy {
		t.Errorf("report = %+v", report)
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unknown counts as degraded", []Status{StatusHealthy, ""}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("VoiceDesk", "1.0.0")
			for i, s := range tt.statuses {
				s := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: s}
				})
			}
			if got := registry.Check(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_CheckDefaults(t *testing.T) {
	registry := NewRegistry("VoiceDesk", "1.0.0")
	registry.RegisterFunc("slow", func(ctx context.Context) CheckResult {
		time.Sleep(10 * time.Millisecond)
		return CheckResult{}
	})

	report := registry.CheckWithTimeout(5 * time.Second)
	result := report.Checks[0]
	if result.Name != "slow" {
		t.Errorf("Name = %q, want slow", result.Name)
	}
	if result.Status != StatusUnknown {
		t.Errorf("Status = %q, want unknown", result.Status)
	}
	if result.Duration < 10*time.Millisecond {
		t.Errorf("Duration = %v, want >= 10ms", result.Duration)
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("VoiceDesk", "1.0.0")

	var running, peak int32
	for i := 0; i < 5; i++ {
		registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return CheckResult{Status: StatusHealthy}
		})
	}

	report := registry.Check(context.Background())
	if len(report.Checks) != 5 {
		t.Fatalf("Checks count = %d, want 5", len(report.Checks))
	}
	if atomic.LoadInt32(&peak) < 2 {
		t.Errorf("checks did not run concurrently (peak %d)", peak)
	}
}
