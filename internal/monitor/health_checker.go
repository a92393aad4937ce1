package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jordanella.com/cursor-tracker/internal/tracker"
)

// Reasons reported to the unhealthy callback
const (
	ReasonCaptureFailing = "capture_failing"
	ReasonWorkerStalled  = "worker_stalled"
)

// StatusSource is the tracker view the checker polls
type StatusSource interface {
	Status() tracker.Status
}

// SampleStats reports cumulative cell samples and failures
type SampleStats interface {
	Stats() (samples, failures uint64)
}

// UnhealthyCallback is called when the tracker becomes unhealthy
type UnhealthyCallback func(reason string, err error)

// Health is the result of the most recent check
type Health struct {
	Healthy     bool      `json:"healthy"`
	Reason      string    `json:"reason,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	FailureRate float64   `json:"failure_rate"`
	Scanning    bool      `json:"scanning"`
	Passes      int       `json:"passes"`
	CheckedAt   time.Time `json:"checked_at"`
}

// HealthChecker watches capture failures and worker progress
type HealthChecker struct {
	source StatusSource
	stats  SampleStats

	checkInterval    time.Duration
	stuckTimeout     time.Duration
	failureThreshold float64
	onUnhealthy      UnhealthyCallback

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.RWMutex
	last         Health
	lastSamples  uint64
	lastFailures uint64
	lastRunID    string
	lastPasses   int
	lastProgress time.Time
}

// NewHealthChecker creates a checker; stats may be nil to skip the capture check
func NewHealthChecker(source StatusSource, stats SampleStats) *HealthChecker {
	ctx, cancel := context.WithCancel(context.Background())

	return &HealthChecker{
		source:           source,
		stats:            stats,
		checkInterval:    10 * time.Second,
		stuckTimeout:     30 * time.Second,
		failureThreshold: 0.5,
		ctx:              ctx,
		cancel:           cancel,
		last:             Health{Healthy: true},
		lastProgress:     time.Now(),
	}
}

// WithUnhealthyCallback sets the callback for unhealthy transitions
func (hc *HealthChecker) WithUnhealthyCallback(callback UnhealthyCallback) *HealthChecker {
	hc.onUnhealthy = callback
	return hc
}

// WithCheckInterval sets the health check interval
func (hc *HealthChecker) WithCheckInterval(interval time.Duration) *HealthChecker {
	hc.checkInterval = interval
	return hc
}

// WithStuckTimeout sets how long a scanning worker may go without a pass
func (hc *HealthChecker) WithStuckTimeout(timeout time.Duration) *HealthChecker {
	hc.stuckTimeout = timeout
	return hc
}

// Start begins health monitoring
func (hc *HealthChecker) Start() {
	hc.wg.Add(1)
	go hc.monitorHealth()
}

// Stop stops health monitoring
func (hc *HealthChecker) Stop() {
	hc.cancel()
	hc.wg.Wait()
}

// Health returns the result of the last check
func (hc *HealthChecker) Health() Health {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.last
}

func (hc *HealthChecker) monitorHealth() {
	defer hc.wg.Done()

	ticker := time.NewTicker(hc.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-hc.ctx.Done():
			return
		case <-ticker.C:
			hc.Check()
		}
	}
}

// Check runs one health check and returns its result
func (hc *HealthChecker) Check() Health {
	status := hc.source.Status()
	now := time.Now()

	hc.mu.Lock()
	h := Health{
		Healthy:   true,
		Scanning:  status.IsScanning,
		Passes:    status.Passes,
		CheckedAt: now,
	}

	// failure rate over the samples taken since the previous check
	if hc.stats != nil {
		samples, failures := hc.stats.Stats()
		if ds := samples - hc.lastSamples; ds > 0 {
			h.FailureRate = float64(failures-hc.lastFailures) / float64(ds)
		}
		hc.lastSamples, hc.lastFailures = samples, failures
		if h.FailureRate >= hc.failureThreshold {
			h.Healthy = false
			h.Reason = ReasonCaptureFailing
			h.Detail = fmt.Sprintf("%.0f%% of cell captures failed", h.FailureRate*100)
		}
	}

	if status.RunID != hc.lastRunID || status.Passes != hc.lastPasses || !status.IsScanning {
		hc.lastRunID, hc.lastPasses, hc.lastProgress = status.RunID, status.Passes, now
	} else if idle := now.Sub(hc.lastProgress); idle > hc.stuckTimeout && h.Healthy {
		h.Healthy = false
		h.Reason = ReasonWorkerStalled
		h.Detail = fmt.Sprintf("no scan pass for %v", idle.Round(time.Second))
	}

	wasHealthy := hc.last.Healthy
	hc.last = h
	callback := hc.onUnhealthy
	hc.mu.Unlock()

	if wasHealthy && !h.Healthy && callback != nil {
		callback(h.Reason, fmt.Errorf("%s", h.Detail))
	}
	return h
}
