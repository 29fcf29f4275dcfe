package ratelimit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisLedger(t *testing.T) *RedisLedger {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &RedisLedger{Client: client}
}

func TestRedisLedgerRecordAndSnapshot(t *testing.T) {
	ctx := context.Background()
	ledger := newTestRedisLedger(t)

	if err := ledger.Record(ctx, "user-1", "important_transactional", "status_changed"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := ledger.Record(ctx, "user-1", "user_notification", "job_alert"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got := ledger.Snapshot(ctx, "user-1")
	want := Counts{TotalHourly: 2, TotalDaily: 2, StatusHourly: 1, JobAlertHourly: 1, JobAlertDaily: 1}
	if got != want {
		t.Fatalf("Snapshot = %+v, want %+v", got, want)
	}
}

func TestRedisLedgerCheckThreshold(t *testing.T) {
	ctx := context.Background()
	ledger := newTestRedisLedger(t)

	for i := 0; i < MaxStatusEmailsPerHour; i++ {
		if err := ledger.Record(ctx, "user-1", "important_transactional", "status_changed"); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	res := ledger.Check(ctx, "user-1", "important_transactional", "status_changed")
	if !res.ShouldAllow {
		t.Fatal("soft limit must never block a send")
	}
	if !strings.Contains(res.Reason, "Hourly limit exceeded") {
		t.Fatalf("reason = %q", res.Reason)
	}
	if res.Counts == nil || res.Counts.StatusHourly != MaxStatusEmailsPerHour {
		t.Fatalf("counts = %+v", res.Counts)
	}
}

func TestRedisLedgerWindowExpiry(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ledger := &RedisLedger{Client: client}

	if err := ledger.Record(ctx, "user-1", "user_notification", "job_alert"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Advance past the hourly window but not the daily one.
	srv.FastForward(61 * time.Minute)

	got := ledger.Snapshot(ctx, "user-1")
	if got.JobAlertHourly != 0 || got.TotalHourly != 0 {
		t.Fatalf("hourly counters survived expiry: %+v", got)
	}
	if got.JobAlertDaily != 1 || got.TotalDaily != 1 {
		t.Fatalf("daily counters expired early: %+v", got)
	}
}

func TestRedisLedgerFailOpen(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ledger := &RedisLedger{Client: client}

	srv.Close()

	res := ledger.Check(ctx, "user-1", "important_transactional", "status_changed")
	if !res.ShouldAllow || res.Reason != "" {
		t.Fatalf("check must fail open on infra error: %+v", res)
	}
	if got := ledger.Snapshot(ctx, "user-1"); got != (Counts{}) {
		t.Fatalf("snapshot must degrade to zero counts: %+v", got)
	}
}

func TestRedisLedgerReset(t *testing.T) {
	ctx := context.Background()
	ledger := newTestRedisLedger(t)

	_ = ledger.Record(ctx, "user-1", "user_notification", "job_alert")
	if err := ledger.Reset(ctx, "user-1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := ledger.Snapshot(ctx, "user-1"); got != (Counts{}) {
		t.Fatalf("counts after reset = %+v, want zero", got)
	}
}
