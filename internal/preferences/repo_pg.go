package preferences

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (EmailPreferences, error) {
	const query = `
SELECT user_id, job_alerts, application_updates, marketing, created_at, updated_at
FROM email_preferences
WHERE user_id = $1
LIMIT 1`
	var p EmailPreferences
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.JobAlerts,
		&p.ApplicationUpdates,
		&p.Marketing,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EmailPreferences{}, ErrNotFound
		}
		return EmailPreferences{}, err
	}
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, prefs EmailPreferences) error {
	const query = `
INSERT INTO email_preferences (user_id, job_alerts, application_updates, marketing, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  job_alerts = EXCLUDED.job_alerts,
  application_updates = EXCLUDED.application_updates,
  marketing = EXCLUDED.marketing,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		prefs.UserID,
		prefs.JobAlerts,
		prefs.ApplicationUpdates,
		prefs.Marketing,
	)
	return err
}

func (r *PGRepo) ListByJobAlerts(ctx context.Context, cadence string) ([]EmailPreferences, error) {
	const query = `
SELECT user_id, job_alerts, application_updates, marketing, created_at, updated_at
FROM email_preferences
WHERE job_alerts = $1
ORDER BY user_id`
	rows, err := r.DB.QueryContext(ctx, query, cadence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmailPreferences
	for rows.Next() {
		var p EmailPreferences
		if err := rows.Scan(
			&p.UserID,
			&p.JobAlerts,
			&p.ApplicationUpdates,
			&p.Marketing,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
