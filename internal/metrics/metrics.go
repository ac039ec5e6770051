package metrics

import (
	"sync"
	"time"
)

// Metrics tracks stage durations and run outcomes for one process.
type Metrics struct {
	mu         sync.Mutex
	stages     map[string]time.Duration
	runsOK     int64
	runsFailed int64
}

func New() *Metrics {
	return &Metrics{stages: make(map[string]time.Duration)}
}

func (m *Metrics) ObserveStage(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[name] += d
}

func (m *Metrics) RunSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsOK++
}

func (m *Metrics) RunFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsFailed++
}

// Snapshot returns cumulative run counters plus stage durations in
// milliseconds.
func (m *Metrics) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int64{
		"runs_succeeded": m.runsOK,
		"runs_failed":    m.runsFailed,
	}
	for name, d := range m.stages {
		out["stage_"+name+"_ms"] = d.Milliseconds()
	}
	return out
}
