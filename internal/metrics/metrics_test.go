package metrics

import (
	"testing"
	"time"
)

func TestSnapshot(t *testing.T) {
	m := New()
	m.ObserveStage("load", 120*time.Millisecond)
	m.ObserveStage("load", 80*time.Millisecond)
	m.RunSucceeded()
	m.RunFailed()

	snap := m.Snapshot()
	if snap["runs_succeeded"] != 1 || snap["runs_failed"] != 1 {
		t.Fatalf("unexpected counters %v", snap)
	}
	if snap["stage_load_ms"] != 200 {
		t.Fatalf("stage durations should accumulate, got %d", snap["stage_load_ms"])
	}
}
