package preferences

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "email preferences not found" }

type Repo interface {
	GetByUserID(ctx context.Context, userID string) (EmailPreferences, error)
	Upsert(ctx context.Context, prefs EmailPreferences) error
	// ListByJobAlerts returns every preference row with the given job alert
	// cadence. Used by the digest scheduler.
	ListByJobAlerts(ctx context.Context, cadence string) ([]EmailPreferences, error)
}
