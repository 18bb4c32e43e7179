package pipeline

import (
	"slices"
	"sync"
	"time"
)

// JobTiming is how long one job spent in each phase, and how it ended.
type JobTiming struct {
	Status JobStatus
	Total  time.Duration
	Phases map[string]time.Duration
}

// LatencySummary aggregates a set of durations in milliseconds.
type LatencySummary struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// TimingsSnapshot is the recent-window view served by /api/stats.
type TimingsSnapshot struct {
	Jobs     int                       `json:"jobs"`
	Outcomes map[JobStatus]int         `json:"outcomes"`
	Total    LatencySummary            `json:"total"`
	Phases   map[string]LatencySummary `json:"phases"`
}

type timedJob struct {
	at time.Time
	JobTiming
}

// JobTimings keeps the timings of jobs finished within a rolling window.
type JobTimings struct {
	mu     sync.Mutex
	jobs   []timedJob
	window time.Duration
}

func NewJobTimings(window time.Duration) *JobTimings {
	if window <= 0 {
		window = time.Hour
	}
	return &JobTimings{window: window}
}

// Record adds a finished job.
func (t *JobTimings) Record(jt JobTiming) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)
	t.jobs = append(t.jobs, timedJob{at: now, JobTiming: jt})
}

func (t *JobTimings) Snapshot() TimingsSnapshot {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)

	snap := TimingsSnapshot{
		Jobs:     len(t.jobs),
		Outcomes: make(map[JobStatus]int),
		Phases:   make(map[string]LatencySummary),
	}
	totals := make([]time.Duration, 0, len(t.jobs))
	byPhase := make(map[string][]time.Duration)
	for _, j := range t.jobs {
		snap.Outcomes[j.Status]++
		totals = append(totals, j.Total)
		for phase, d := range j.Phases {
			byPhase[phase] = append(byPhase[phase], d)
		}
	}
	snap.Total = summarize(totals)
	for phase, ds := range byPhase {
		snap.Phases[phase] = summarize(ds)
	}
	return snap
}

func (t *JobTimings) pruneLocked(now time.Time) {
	cutoff := now.Add(-t.window)
	t.jobs = slices.DeleteFunc(t.jobs, func(j timedJob) bool { return j.at.Before(cutoff) })
}

func summarize(ds []time.Duration) LatencySummary {
	if len(ds) == 0 {
		return LatencySummary{}
	}
	ms := make([]int64, len(ds))
	var sum int64
	for i, d := range ds {
		ms[i] = max(d.Milliseconds(), 0)
		sum += ms[i]
	}
	slices.Sort(ms)
	return LatencySummary{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: float64(sum) / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}

// phaseClock measures consecutive phases of one job. Starting a phase ends
// the previous one.
type phaseClock struct {
	start   time.Time
	current string
	since   time.Time
	phases  map[string]time.Duration
}

func newPhaseClock() *phaseClock {
	now := time.Now()
	return &phaseClock{start: now, since: now, phases: make(map[string]time.Duration)}
}

func (c *phaseClock) enter(phase string) {
	now := time.Now()
	if c.current != "" {
		c.phases[c.current] += now.Sub(c.since)
	}
	c.current, c.since = phase, now
}

// stop closes the open phase and returns the job's timing.
func (c *phaseClock) stop(status JobStatus) JobTiming {
	c.enter("")
	return JobTiming{Status: status, Total: time.Since(c.start), Phases: c.phases}
}
