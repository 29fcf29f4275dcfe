package applications

import (
	"context"
	"time"

	"jobboard-backend/internal/status"
)

type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, appID string) (Application, error)
	GetByJobAndUser(ctx context.Context, jobID, userID string) (Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	UpdateStatus(ctx context.Context, appID string, to status.Status) error
	// UpdateStatusNotified writes the notification markers after a delivered
	// status email. Last writer wins.
	UpdateStatusNotified(ctx context.Context, appID string, notified status.Status, sentAt time.Time) error
}
