package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCorpus struct{ size int }

func (m mockCorpus) CorpusSize() int { return m.size }

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type mockModel struct{ err error }

func (m mockModel) HealthCheck(context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(mockCorpus{size: 10}, mockPinger{}, mockModel{})
	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("expected %s, got %s", Healthy, report.Status)
	}
	for name, result := range report.Checks {
		if result != CheckOK {
			t.Errorf("check %s = %s, want %s", name, result, CheckOK)
		}
	}
	if len(report.Checks) != 3 {
		t.Errorf("expected 3 checks, got %d", len(report.Checks))
	}
}

func TestCheck_EmptyCorpusDegrades(t *testing.T) {
	svc := New(mockCorpus{size: 0}, nil, nil)
	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.Checks["corpus"] != CheckError {
		t.Errorf("corpus check = %s, want error", report.Checks["corpus"])
	}
}

func TestCheck_StoreFailureDegrades(t *testing.T) {
	svc := New(mockCorpus{size: 5}, mockPinger{err: errors.New("down")}, nil)
	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.Checks["store"] != CheckError {
		t.Errorf("store check = %s, want error", report.Checks["store"])
	}
}

func TestCheck_NilDependenciesSkipped(t *testing.T) {
	svc := New(mockCorpus{size: 5}, nil, nil)
	report := svc.Check(context.Background())

	if _, ok := report.Checks["store"]; ok {
		t.Error("nil store must not be checked")
	}
	if _, ok := report.Checks["model"]; ok {
		t.Error("nil model must not be checked")
	}
	if report.Status != Healthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
}

func TestCheck_ModelFailureDegrades(t *testing.T) {
	svc := New(mockCorpus{size: 5}, mockPinger{}, mockModel{err: errors.New("401")})
	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.Checks["model"] != CheckError {
		t.Errorf("model check = %s, want error", report.Checks["model"])
	}
}
