package pipeline

import (
	"testing"
	"time"
)

func timing(status JobStatus, totalMs int64, phases map[string]int64) JobTiming {
	jt := JobTiming{Status: status, Total: time.Duration(totalMs) * time.Millisecond, Phases: map[string]time.Duration{}}
	for p, ms := range phases {
		jt.Phases[p] = time.Duration(ms) * time.Millisecond
	}
	return jt
}

func TestJobTimings_TotalPercentiles(t *testing.T) {
	timings := NewJobTimings(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		timings.Record(timing(StatusCompleted, ms, nil))
	}

	snap := timings.Snapshot()
	if snap.Jobs != 5 || snap.Total.Count != 5 {
		t.Fatalf("expected 5 jobs, got %d (count %d)", snap.Jobs, snap.Total.Count)
	}
	if snap.Total.MinMs != 100 || snap.Total.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.Total.MinMs, snap.Total.MaxMs)
	}
	if snap.Total.AvgMs != 300 || snap.Total.P50Ms != 300 {
		t.Fatalf("expected avg=p50=300, got avg=%f p50=%f", snap.Total.AvgMs, snap.Total.P50Ms)
	}
	if snap.Total.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.Total.P95Ms)
	}
}

func TestJobTimings_PhasesAndOutcomes(t *testing.T) {
	timings := NewJobTimings(time.Hour)
	timings.Record(timing(StatusCompleted, 30, map[string]int64{"parsing": 10, "paginating": 20}))
	timings.Record(timing(StatusCompleted, 50, map[string]int64{"parsing": 30, "paginating": 20}))
	timings.Record(timing(StatusFailed, 5, map[string]int64{"parsing": 5}))
	timings.Record(timing(StatusDupSkipped, 8, map[string]int64{"parsing": 4, "dedup": 4}))

	snap := timings.Snapshot()
	if snap.Outcomes[StatusCompleted] != 2 || snap.Outcomes[StatusFailed] != 1 || snap.Outcomes[StatusDupSkipped] != 1 {
		t.Errorf("unexpected outcomes: %v", snap.Outcomes)
	}
	parsing := snap.Phases["parsing"]
	if parsing.Count != 4 || parsing.MinMs != 4 || parsing.MaxMs != 30 {
		t.Errorf("unexpected parsing summary: %+v", parsing)
	}
	if snap.Phases["paginating"].Count != 2 || snap.Phases["dedup"].Count != 1 {
		t.Errorf("unexpected phase counts: %+v", snap.Phases)
	}
	if _, ok := snap.Phases["publishing"]; ok {
		t.Error("expected no publishing phase when none was recorded")
	}
}

func TestJobTimings_PrunesExpiredJobs(t *testing.T) {
	timings := NewJobTimings(10 * time.Millisecond)
	timings.Record(timing(StatusCompleted, 100, nil))
	time.Sleep(25 * time.Millisecond)

	if snap := timings.Snapshot(); snap.Jobs != 0 {
		t.Fatalf("expected 0 jobs after prune, got %d", snap.Jobs)
	}

	timings.Record(timing(StatusCompleted, 200, nil))
	if snap := timings.Snapshot(); snap.Jobs != 1 || snap.Total.MinMs != 200 {
		t.Fatalf("expected one fresh 200ms job, got %+v", snap)
	}
}

func TestJobTimings_ClampsNegativeDuration(t *testing.T) {
	timings := NewJobTimings(time.Hour)
	timings.Record(timing(StatusCompleted, -10, nil))
	if snap := timings.Snapshot(); snap.Total.MinMs != 0 || snap.Total.MaxMs != 0 {
		t.Fatalf("expected clamped duration 0, got %+v", snap.Total)
	}
}

func TestJobTimings_Empty(t *testing.T) {
	snap := NewJobTimings(0).Snapshot()
	if snap.Jobs != 0 || snap.Total != (LatencySummary{}) || len(snap.Phases) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestPhaseClock_AccumulatesPhases(t *testing.T) {
	clock := newPhaseClock()
	clock.enter("parsing")
	time.Sleep(2 * time.Millisecond)
	clock.enter("paginating")
	jt := clock.stop(StatusCompleted)

	if jt.Status != StatusCompleted {
		t.Errorf("expected completed, got %q", jt.Status)
	}
	if jt.Phases["parsing"] < 2*time.Millisecond {
		t.Errorf("expected parsing >= 2ms, got %s", jt.Phases["parsing"])
	}
	if _, ok := jt.Phases["paginating"]; !ok {
		t.Error("expected open phase to be closed by stop")
	}
	if _, ok := jt.Phases[""]; ok {
		t.Error("expected no unnamed phase")
	}
	if jt.Total < jt.Phases["parsing"] {
		t.Errorf("expected total %s >= parsing %s", jt.Total, jt.Phases["parsing"])
	}
}
