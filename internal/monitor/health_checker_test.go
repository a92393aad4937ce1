package monitor

import (
	"sync"
	"testing"
	"time"

	"jordanella.com/cursor-tracker/internal/tracker"
)

type fakeSource struct {
	mu     sync.Mutex
	status tracker.Status
}

func (f *fakeSource) Status() tracker.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeSource) set(scanning bool, passes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status.IsScanning = scanning
	f.status.RunID = "run-1"
	f.status.Passes = passes
}

type fakeStats struct {
	samples, failures uint64
}

func (f *fakeStats) Stats() (uint64, uint64) {
	return f.samples, f.failures
}

func TestHealthyWhenIdle(t *testing.T) {
	hc := NewHealthChecker(&fakeSource{}, &fakeStats{})

	h := hc.Check()
	if !h.Healthy {
		t.Errorf("Expected idle tracker to be healthy, got %+v", h)
	}
	if got := hc.Health(); got.CheckedAt != h.CheckedAt {
		t.Error("Health should return the last check")
	}
}

func TestCaptureFailureRate(t *testing.T) {
	stats := &fakeStats{}
	var reasons []string
	hc := NewHealthChecker(&fakeSource{}, stats).
		WithUnhealthyCallback(func(reason string, err error) {
			reasons = append(reasons, reason)
		})

	stats.samples, stats.failures = 100, 10
	if h := hc.Check(); !h.Healthy || h.FailureRate != 0.1 {
		t.Errorf("Expected healthy at 10%% failures, got %+v", h)
	}

	stats.samples, stats.failures = 200, 90
	h := hc.Check()
	if h.Healthy || h.Reason != ReasonCaptureFailing {
		t.Errorf("Expected capture failure, got %+v", h)
	}

	// still failing: the callback fires only on the transition
	stats.samples, stats.failures = 300, 190
	hc.Check()
	if len(reasons) != 1 {
		t.Errorf("Expected one unhealthy callback, got %v", reasons)
	}
}

func TestWorkerStalled(t *testing.T) {
	src := &fakeSource{}
	hc := NewHealthChecker(src, nil).WithStuckTimeout(10 * time.Millisecond)

	src.set(true, 3)
	if h := hc.Check(); !h.Healthy {
		t.Fatalf("Expected healthy on first pass, got %+v", h)
	}

	time.Sleep(20 * time.Millisecond)
	h := hc.Check()
	if h.Healthy || h.Reason != ReasonWorkerStalled {
		t.Errorf("Expected stalled worker, got %+v", h)
	}

	src.set(true, 4)
	if h := hc.Check(); !h.Healthy {
		t.Errorf("Expected recovery after progress, got %+v", h)
	}
}

func TestStartStop(t *testing.T) {
	hc := NewHealthChecker(&fakeSource{}, &fakeStats{}).WithCheckInterval(time.Millisecond)
	hc.Start()

	deadline := time.Now().Add(time.Second)
	for hc.Health().CheckedAt.IsZero() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hc.Stop()

	if hc.Health().CheckedAt.IsZero() {
		t.Error("Expected at least one background check")
	}
}
