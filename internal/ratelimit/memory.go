package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger is a process-local Ledger backed by a mutex-guarded map.
// Counter windows reset lazily: every access compares the stored reset
// timestamps with the current time, so no background timer is needed.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	counts Counts
	// hourlyResetAt and dailyResetAt are seeded from the same instant and
	// only ever advanced under the ledger lock against a single "now", so
	// the two granularities cannot drift apart.
	hourlyResetAt time.Time
	dailyResetAt  time.Time
}

// NewMemoryLedger constructs a ledger with an injectable clock for tests.
func NewMemoryLedger(now func() time.Time) *MemoryLedger {
	if now == nil {
		now = time.Now
	}
	return &MemoryLedger{
		entries: make(map[string]*entry),
		now:     now,
	}
}

// Check reports whether any applicable threshold is met. It never blocks a
// send: ShouldAllow is always true.
func (l *MemoryLedger) Check(ctx context.Context, userID, category, eventType string) CheckResult {
	_ = ctx
	if userID == "" {
		return CheckResult{ShouldAllow: true}
	}
	l.mu.Lock()
	e := l.ensure(userID)
	counts := e.counts
	l.mu.Unlock()

	reason := exceededReason(counts, eventType)
	if reason == "" {
		return CheckResult{ShouldAllow: true}
	}
	snapshot := counts
	return CheckResult{ShouldAllow: true, Reason: reason, Counts: &snapshot}
}

// Record increments the applicable counters. Anonymous sends are never tracked.
func (l *MemoryLedger) Record(ctx context.Context, userID, category, eventType string) error {
	_ = ctx
	if userID == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.ensure(userID)
	e.counts.TotalHourly++
	e.counts.TotalDaily++
	if isStatusEmail(eventType) {
		e.counts.StatusHourly++
	}
	if isJobAlert(eventType) {
		e.counts.JobAlertHourly++
		e.counts.JobAlertDaily++
	}
	return nil
}

// Snapshot returns the user's current counters, zero if unseen.
func (l *MemoryLedger) Snapshot(ctx context.Context, userID string) Counts {
	_ = ctx
	if userID == "" {
		return Counts{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ensure(userID).counts
}

// Reset clears all counters for a user.
func (l *MemoryLedger) Reset(ctx context.Context, userID string) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, userID)
	return nil
}

// ensure fetches the user's entry, applying any due window resets.
// Callers must hold l.mu.
func (l *MemoryLedger) ensure(userID string) *entry {
	now := l.now()
	e, ok := l.entries[userID]
	if !ok {
		e = &entry{hourlyResetAt: now, dailyResetAt: now}
		l.entries[userID] = e
		return e
	}
	if now.Sub(e.dailyResetAt) >= 24*time.Hour {
		// A daily reset clears everything, hourly included, so the windows
		// stay in lockstep.
		e.counts = Counts{}
		e.dailyResetAt = now
		e.hourlyResetAt = now
		return e
	}
	if now.Sub(e.hourlyResetAt) >= time.Hour {
		e.counts.TotalHourly = 0
		e.counts.StatusHourly = 0
		e.counts.JobAlertHourly = 0
		e.hourlyResetAt = now
	}
	return e
}

var _ Ledger = (*MemoryLedger)(nil)
