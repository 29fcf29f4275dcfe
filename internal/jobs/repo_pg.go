package jobs

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, employer_id, title, company, location, description, active, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, employer_id, title, company, location, description, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.EmployerID,
		job.Title,
		job.Company,
		nullableString(job.Location),
		nullableString(job.Description),
		job.Active,
	)
	return err
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs SET
  title = $2,
  company = $3,
  location = $4,
  description = $5,
  active = $6,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		nullableString(job.Location),
		nullableString(job.Description),
		job.Active,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, jobID)
	job, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

func (r *PGRepo) ListActive(ctx context.Context, limit int) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE active ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

func (r *PGRepo) ListByEmployer(ctx context.Context, employerID string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, employerID)
}

func (r *PGRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE active AND created_at >= $1 ORDER BY created_at DESC`
	return r.list(ctx, query, since)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func scanJob(scan func(dest ...any) error) (Job, error) {
	var job Job
	var location sql.NullString
	var description sql.NullString
	err := scan(
		&job.ID,
		&job.EmployerID,
		&job.Title,
		&job.Company,
		&location,
		&description,
		&job.Active,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	if location.Valid {
		job.Location = location.String
	}
	if description.Valid {
		job.Description = description.String
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
