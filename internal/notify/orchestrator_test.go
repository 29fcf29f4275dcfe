package notify

import (
	"context"
	"testing"
	"time"

	"jobboard-backend/internal/preferences"
	"jobboard-backend/internal/ratelimit"
	"jobboard-backend/internal/status"
)

type stubLedger struct {
	checkCalls  int
	recordCalls int
	reason      string
}

func (s *stubLedger) Check(ctx context.Context, userID, category, eventType string) ratelimit.CheckResult {
	s.checkCalls++
	return ratelimit.CheckResult{ShouldAllow: true, Reason: s.reason}
}

func (s *stubLedger) Record(ctx context.Context, userID, category, eventType string) error {
	s.recordCalls++
	return nil
}

func (s *stubLedger) Snapshot(ctx context.Context, userID string) ratelimit.Counts {
	return ratelimit.Counts{}
}

func (s *stubLedger) Reset(ctx context.Context, userID string) error { return nil }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEvaluatePreferenceBlockIsTerminal(t *testing.T) {
	repo := preferences.NewMemoryRepo()
	if err := repo.Upsert(context.Background(), preferences.EmailPreferences{
		UserID:    "u1",
		JobAlerts: preferences.JobAlertsWeekly,
	}); err != nil {
		t.Fatalf("seed prefs: %v", err)
	}
	ledger := &stubLedger{}
	orch := NewOrchestrator(NewGate(repo), ledger)

	d := orch.Evaluate(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged, &StatusContext{
		ApplicationID: "app-1",
		Candidate:     status.Offered,
	})
	if d.Send {
		t.Fatal("expected send blocked by preference gate")
	}
	if d.Reason != "user has disabled application update emails" {
		t.Errorf("unexpected reason %q", d.Reason)
	}
	if ledger.checkCalls != 0 {
		t.Errorf("ledger consulted after a terminal preference block: %d calls", ledger.checkCalls)
	}
}

func TestEvaluateStatusSuppression(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tenMinAgo := now.Add(-10 * time.Minute)
	fortyMinAgo := now.Add(-40 * time.Minute)

	tests := []struct {
		name     string
		sc       StatusContext
		wantSend bool
		winning  status.Status
	}{
		{
			name:     "no prior email",
			sc:       StatusContext{Candidate: status.Contacted},
			wantSend: true,
		},
		{
			name:     "window elapsed",
			sc:       StatusContext{Candidate: status.Contacted, LastNotified: status.Contacted, LastEmailSentAt: &fortyMinAgo},
			wantSend: true,
		},
		{
			name:     "repeat inside window",
			sc:       StatusContext{Candidate: status.Contacted, LastNotified: status.Contacted, LastEmailSentAt: &tenMinAgo},
			wantSend: false,
		},
		{
			name:     "escalation inside window",
			sc:       StatusContext{Candidate: status.Offered, LastNotified: status.Interviewing, LastEmailSentAt: &tenMinAgo},
			wantSend: true,
			winning:  status.Offered,
		},
		{
			name:     "downgrade inside window",
			sc:       StatusContext{Candidate: status.Rejected, LastNotified: status.Offered, LastEmailSentAt: &tenMinAgo},
			wantSend: false,
		},
		{
			name:     "non-notifiable status",
			sc:       StatusContext{Candidate: status.Viewed},
			wantSend: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orch := NewOrchestrator(NewGate(preferences.NewMemoryRepo()), &stubLedger{})
			orch.Now = fixedClock(now)
			sc := tc.sc
			d := orch.Evaluate(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged, &sc)
			if d.Send != tc.wantSend {
				t.Fatalf("Send = %v (%q), want %v", d.Send, d.Reason, tc.wantSend)
			}
			if d.WinningStatus != tc.winning {
				t.Errorf("WinningStatus = %q, want %q", d.WinningStatus, tc.winning)
			}
		})
	}
}

func TestEvaluateRateLimitIsAdvisory(t *testing.T) {
	ledger := &stubLedger{reason: "Hourly limit exceeded: total emails"}
	orch := NewOrchestrator(NewGate(preferences.NewMemoryRepo()), ledger)

	d := orch.Evaluate(context.Background(), "u1", CategoryUserNotification, EventJobAlert, nil)
	if !d.Send {
		t.Fatalf("expected send allowed despite rate-limit warning, got blocked (%q)", d.Reason)
	}
	if len(d.Warnings) != 1 || d.Warnings[0] != ledger.reason {
		t.Errorf("Warnings = %v, want [%q]", d.Warnings, ledger.reason)
	}
}

func TestConfirmRecordsLedger(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ledger := ratelimit.NewMemoryLedger(fixedClock(now))
	orch := NewOrchestrator(NewGate(preferences.NewMemoryRepo()), ledger)

	d := orch.Evaluate(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged, &StatusContext{Candidate: status.Contacted})
	if !d.Send {
		t.Fatalf("expected send, got blocked (%q)", d.Reason)
	}
	if got := ledger.Snapshot(context.Background(), "u1"); got.TotalHourly != 0 {
		t.Fatalf("counters moved before delivery confirmation: %+v", got)
	}

	orch.Confirm(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged)
	got := ledger.Snapshot(context.Background(), "u1")
	if got.TotalHourly != 1 || got.TotalDaily != 1 || got.StatusHourly != 1 {
		t.Errorf("counts after confirm = %+v, want total 1/1 status 1", got)
	}
}
