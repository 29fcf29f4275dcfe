package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/preferences"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

// Service assembles job alert digests: for each subscriber at a cadence it
// collects jobs posted since the last digest window and hands one email to
// the dispatcher. The preference gate and the job-alert rate limits apply on
// the way out like any other notification.
type Service struct {
	Jobs       *jobs.Service
	Users      users.Repo
	Prefs      preferences.Repo
	Dispatcher *notify.Dispatcher
	Now        func() time.Time
}

func NewService(jobsSvc *jobs.Service, usersRepo users.Repo, prefsRepo preferences.Repo, dispatcher *notify.Dispatcher) *Service {
	return &Service{Jobs: jobsSvc, Users: usersRepo, Prefs: prefsRepo, Dispatcher: dispatcher}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func lookback(cadence string) (time.Duration, error) {
	switch cadence {
	case preferences.JobAlertsDaily:
		return 24 * time.Hour, nil
	case preferences.JobAlertsWeekly:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("no digest for cadence %q", cadence)
	}
}

// RunDigest sends the digest for one cadence. Per-user failures are logged
// and skipped; the run keeps going. Returns how many digests were dispatched.
func (s *Service) RunDigest(ctx context.Context, cadence string) (int, error) {
	if s == nil || s.Jobs == nil || s.Prefs == nil {
		return 0, errors.New("alerts service not configured")
	}
	window, err := lookback(cadence)
	if err != nil {
		return 0, err
	}

	posted, err := s.Jobs.PostedSince(ctx, s.now().Add(-window))
	if err != nil {
		return 0, fmt.Errorf("list recent jobs: %w", err)
	}
	if len(posted) == 0 {
		telemetry.Info("alerts.digest.empty", map[string]any{"cadence": cadence})
		return 0, nil
	}

	subscribers, err := s.Prefs.ListByJobAlerts(ctx, cadence)
	if err != nil {
		return 0, fmt.Errorf("list subscribers: %w", err)
	}

	sent := 0
	for _, sub := range subscribers {
		user, err := s.Users.GetByID(ctx, sub.UserID)
		if err != nil {
			telemetry.Error("alerts.digest.user_lookup_failed", map[string]any{
				"user_id": sub.UserID,
				"error":   err.Error(),
			})
			continue
		}
		dec := s.Dispatcher.Dispatch(ctx, user.ID, notify.CategoryUserNotification, notify.EventJobAlert, nil, notify.Email{
			To:       user.Email,
			ToName:   user.FullName,
			Subject:  digestSubject(cadence, len(posted)),
			TextBody: digestBody(user.FullName, posted),
		})
		if dec.Send {
			sent++
		}
	}
	telemetry.Info("alerts.digest.complete", map[string]any{
		"cadence":     cadence,
		"jobs":        len(posted),
		"subscribers": len(subscribers),
		"sent":        sent,
	})
	return sent, nil
}

func digestSubject(cadence string, count int) string {
	noun := "jobs"
	if count == 1 {
		noun = "job"
	}
	if cadence == preferences.JobAlertsDaily {
		return fmt.Sprintf("%d new %s posted today", count, noun)
	}
	return fmt.Sprintf("%d new %s posted this week", count, noun)
}

func digestBody(name string, posted []jobs.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nNew job postings you might be interested in:\n\n", name)
	for _, job := range posted {
		fmt.Fprintf(&b, "- %s at %s", job.Title, job.Company)
		if job.Location != "" {
			fmt.Fprintf(&b, " (%s)", job.Location)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nYou can change your alert cadence in your email preferences.")
	return b.String()
}
