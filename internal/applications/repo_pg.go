package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"jobboard-backend/internal/status"
)

type PGRepo struct {
	DB *sql.DB
}

const appColumns = `id, job_id, user_id, full_name, email, cover_letter, resume_file_name, resume_text,
  status, last_status_email_sent_at, last_status_notified, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, job_id, user_id, full_name, email, cover_letter, resume_file_name, resume_text, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.JobID,
		app.UserID,
		app.FullName,
		app.Email,
		nullableString(app.CoverLetter),
		nullableString(app.ResumeFileName),
		nullableString(app.ResumeText),
		string(app.Status),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, appID string) (Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, appID)
	app, err := scanApp(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (r *PGRepo) GetByJobAndUser(ctx context.Context, jobID, userID string) (Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE job_id = $1 AND user_id = $2 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, jobID, userID)
	app, err := scanApp(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, jobID)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, appID string, to status.Status) error {
	const query = `UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, appID, string(to))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateStatusNotified(ctx context.Context, appID string, notified status.Status, sentAt time.Time) error {
	const query = `
UPDATE applications SET
  last_status_email_sent_at = $2,
  last_status_notified = $3,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, appID, sentAt, string(notified))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApp(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func scanApp(scan func(dest ...any) error) (Application, error) {
	var app Application
	var coverLetter sql.NullString
	var resumeFileName sql.NullString
	var resumeText sql.NullString
	var rawStatus string
	var lastSentAt sql.NullTime
	var lastNotified sql.NullString
	err := scan(
		&app.ID,
		&app.JobID,
		&app.UserID,
		&app.FullName,
		&app.Email,
		&coverLetter,
		&resumeFileName,
		&resumeText,
		&rawStatus,
		&lastSentAt,
		&lastNotified,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	if coverLetter.Valid {
		app.CoverLetter = coverLetter.String
	}
	if resumeFileName.Valid {
		app.ResumeFileName = resumeFileName.String
	}
	if resumeText.Valid {
		app.ResumeText = resumeText.String
	}
	app.Status = status.Status(rawStatus)
	if lastSentAt.Valid {
		sent := lastSentAt.Time
		app.LastStatusEmailSentAt = &sent
	}
	if lastNotified.Valid {
		app.LastStatusNotified = status.Status(lastNotified.String)
	}
	return app, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
