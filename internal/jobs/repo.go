package jobs

import (
	"context"
	"time"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "job not found" }

type Repo interface {
	Create(ctx context.Context, job Job) error
	Update(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	ListActive(ctx context.Context, limit int) ([]Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]Job, error)
	// ListCreatedSince returns active jobs posted at or after the cutoff,
	// newest first. Used by the alert digests.
	ListCreatedSince(ctx context.Context, since time.Time) ([]Job, error)
}
