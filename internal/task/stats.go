package task

import (
	"sync"
	"time"
)

// Stats is a point-in-time view of a server's task counters.
type Stats struct {
	StartedAt time.Time

	Submitted  int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Abandoned  int
}

// Finished returns the number of tasks with a stored result.
func (s Stats) Finished() int {
	return s.Completed + s.Failed
}

// Delta is an incremental counter change. Fields are signed.
type Delta struct {
	Submitted  int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Abandoned  int
}

// StatsTracker keeps aggregated counters for one server. It is safe for
// concurrent use.
type StatsTracker struct {
	mu       sync.Mutex
	stats    Stats
	onChange func(Stats)
}

// NewStatsTracker creates a tracker with zeroed counters.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Update applies d. The change callback, if any, receives a copy of the
// updated counters outside the critical section.
func (t *StatsTracker) Update(d Delta) {
	if t == nil {
		return
	}

	t.mu.Lock()
	t.stats.Submitted += d.Submitted
	t.stats.Pending += d.Pending
	t.stats.Processing += d.Processing
	t.stats.Completed += d.Completed
	t.stats.Failed += d.Failed
	t.stats.Abandoned += d.Abandoned
	snapshot := t.stats
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// MarkStarted records the start time.
func (t *StatsTracker) MarkStarted(at time.Time) {
	t.mu.Lock()
	t.stats.StartedAt = at
	t.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (t *StatsTracker) Snapshot() Stats {
	if t == nil {
		return Stats{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; a later call replaces the previous callback.
func (t *StatsTracker) OnChange(cb func(Stats)) {
	t.mu.Lock()
	t.onChange = cb
	t.mu.Unlock()
}
