package applications

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobboard-backend/internal/status"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	apps map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{apps: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == app.JobID && existing.UserID == app.UserID {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	r.apps[app.ID] = app
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, appID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[appID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) GetByJobAndUser(ctx context.Context, jobID, userID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.apps {
		if app.JobID == jobID && app.UserID == userID {
			return app, nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, app := range r.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			out = append(out, app)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, appID string, to status.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[appID]
	if !ok {
		return ErrNotFound
	}
	app.Status = to
	app.UpdatedAt = time.Now().UTC()
	r.apps[appID] = app
	return nil
}

func (r *MemoryRepo) UpdateStatusNotified(ctx context.Context, appID string, notified status.Status, sentAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[appID]
	if !ok {
		return ErrNotFound
	}
	sent := sentAt
	app.LastStatusEmailSentAt = &sent
	app.LastStatusNotified = notified
	app.UpdatedAt = time.Now().UTC()
	r.apps[appID] = app
	return nil
}

func sortNewestFirst(apps []Application) {
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
