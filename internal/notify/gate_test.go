package notify

import (
	"context"
	"errors"
	"testing"

	"jobboard-backend/internal/preferences"
)

type failingPrefsRepo struct{}

func (failingPrefsRepo) GetByUserID(ctx context.Context, userID string) (preferences.EmailPreferences, error) {
	return preferences.EmailPreferences{}, errors.New("connection refused")
}

func (failingPrefsRepo) Upsert(ctx context.Context, prefs preferences.EmailPreferences) error {
	return errors.New("connection refused")
}

func (failingPrefsRepo) ListByJobAlerts(ctx context.Context, cadence string) ([]preferences.EmailPreferences, error) {
	return nil, errors.New("connection refused")
}

func seedPrefs(t *testing.T, p preferences.EmailPreferences) *preferences.MemoryRepo {
	t.Helper()
	repo := preferences.NewMemoryRepo()
	if err := repo.Upsert(context.Background(), p); err != nil {
		t.Fatalf("seed prefs: %v", err)
	}
	return repo
}

func TestGateCriticalAlwaysAllowed(t *testing.T) {
	repo := seedPrefs(t, preferences.EmailPreferences{
		UserID:             "u1",
		JobAlerts:          preferences.JobAlertsNever,
		ApplicationUpdates: false,
		Marketing:          false,
	})
	gate := NewGate(repo)

	for _, tc := range []struct {
		category  Category
		eventType string
	}{
		{CategoryCriticalTransactional, EventPasswordReset},
		{CategoryCriticalTransactional, EventAccountVerification},
		{CategorySystem, "admin_notice"},
	} {
		d := gate.CanSend(context.Background(), "u1", tc.category, tc.eventType)
		if !d.CanSend {
			t.Errorf("%s/%s: blocked (%q), want allowed", tc.category, tc.eventType, d.Reason)
		}
	}
}

func TestGateApplicationUpdates(t *testing.T) {
	repo := seedPrefs(t, preferences.EmailPreferences{
		UserID:             "u1",
		JobAlerts:          preferences.JobAlertsWeekly,
		ApplicationUpdates: false,
	})
	gate := NewGate(repo)

	d := gate.CanSend(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged)
	if d.CanSend {
		t.Fatal("expected status change email blocked when application updates disabled")
	}
	if d.Reason != "user has disabled application update emails" {
		t.Errorf("unexpected reason %q", d.Reason)
	}

	if err := repo.Upsert(context.Background(), preferences.EmailPreferences{
		UserID:             "u1",
		JobAlerts:          preferences.JobAlertsWeekly,
		ApplicationUpdates: true,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if d := gate.CanSend(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged); !d.CanSend {
		t.Errorf("expected allowed after re-enabling, got blocked (%q)", d.Reason)
	}
}

func TestGateJobAlerts(t *testing.T) {
	repo := seedPrefs(t, preferences.EmailPreferences{
		UserID:             "u1",
		JobAlerts:          preferences.JobAlertsNever,
		ApplicationUpdates: true,
	})
	gate := NewGate(repo)

	d := gate.CanSend(context.Background(), "u1", CategoryUserNotification, EventJobAlert)
	if d.CanSend {
		t.Fatal("expected job alert blocked for jobAlerts=never")
	}
	if d.Reason != "user has disabled job alert emails" {
		t.Errorf("unexpected reason %q", d.Reason)
	}

	// jobAlerts=never gates only job alerts, not the rest of the category.
	if d := gate.CanSend(context.Background(), "u1", CategoryUserNotification, "digest"); !d.CanSend {
		t.Errorf("expected non-alert user notification allowed, got blocked (%q)", d.Reason)
	}
}

func TestGateMarketingOptIn(t *testing.T) {
	repo := seedPrefs(t, preferences.EmailPreferences{
		UserID:             "u1",
		JobAlerts:          preferences.JobAlertsWeekly,
		ApplicationUpdates: true,
		Marketing:          false,
	})
	gate := NewGate(repo)

	d := gate.CanSend(context.Background(), "u1", CategoryUserNotification, "marketing_newsletter")
	if d.CanSend {
		t.Fatal("expected marketing email blocked without opt-in")
	}
	if d.Reason != "user has not opted into marketing emails" {
		t.Errorf("unexpected reason %q", d.Reason)
	}
}

func TestGateFailOpen(t *testing.T) {
	t.Run("no preference row", func(t *testing.T) {
		gate := NewGate(preferences.NewMemoryRepo())
		if d := gate.CanSend(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged); !d.CanSend {
			t.Errorf("expected allowed for user with no preference row, got blocked (%q)", d.Reason)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		gate := NewGate(failingPrefsRepo{})
		if d := gate.CanSend(context.Background(), "u1", CategoryImportantTransactional, EventStatusChanged); !d.CanSend {
			t.Errorf("expected fail-open on lookup error, got blocked (%q)", d.Reason)
		}
	})

	t.Run("anonymous recipient", func(t *testing.T) {
		gate := NewGate(failingPrefsRepo{})
		if d := gate.CanSend(context.Background(), "", CategoryUserNotification, EventJobAlert); !d.CanSend {
			t.Errorf("expected anonymous recipient allowed, got blocked (%q)", d.Reason)
		}
	})
}
