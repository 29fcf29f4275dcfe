package preferences

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	prefs map[string]EmailPreferences
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{prefs: make(map[string]EmailPreferences)}
}

func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (EmailPreferences, error) {
	if err := ctx.Err(); err != nil {
		return EmailPreferences{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prefs[userID]
	if !ok {
		return EmailPreferences{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, prefs EmailPreferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.prefs[prefs.UserID]
	now := time.Now().UTC()
	if !ok {
		prefs.CreatedAt = now
	} else {
		prefs.CreatedAt = existing.CreatedAt
	}
	prefs.UpdatedAt = now
	r.prefs[prefs.UserID] = prefs
	return nil
}

func (r *MemoryRepo) ListByJobAlerts(ctx context.Context, cadence string) ([]EmailPreferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []EmailPreferences
	for _, p := range r.prefs {
		if p.JobAlerts == cadence {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
