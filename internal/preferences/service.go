package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service contains business logic for email preferences.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// EnsureDefaults creates the default preference row for a new user. Existing
// rows are left untouched.
func (s *Service) EnsureDefaults(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("preferences service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	if _, err := s.Repo.GetByUserID(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.Repo.Upsert(ctx, Defaults(userID))
}

// Get returns the user's preferences, falling back to defaults when no row
// exists (legacy accounts).
func (s *Service) Get(ctx context.Context, userID string) (EmailPreferences, error) {
	if s == nil || s.Repo == nil {
		return EmailPreferences{}, errors.New("preferences service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return EmailPreferences{}, errors.New("user id is required")
	}
	p, err := s.Repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Defaults(userID), nil
	}
	return p, err
}

// Update validates and persists the user's preferences.
func (s *Service) Update(ctx context.Context, prefs EmailPreferences) (EmailPreferences, error) {
	if s == nil || s.Repo == nil {
		return EmailPreferences{}, errors.New("preferences service not configured")
	}
	if strings.TrimSpace(prefs.UserID) == "" {
		return EmailPreferences{}, errors.New("user id is required")
	}
	if !ValidJobAlerts(prefs.JobAlerts) {
		return EmailPreferences{}, fmt.Errorf("invalid jobAlerts value %q", prefs.JobAlerts)
	}
	if err := s.Repo.Upsert(ctx, prefs); err != nil {
		return EmailPreferences{}, err
	}
	return s.Repo.GetByUserID(ctx, prefs.UserID)
}
