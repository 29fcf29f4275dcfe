package applications

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"jobboard-backend/internal/status"
)

var appRows = []string{
	"id", "job_id", "user_id", "full_name", "email", "cover_letter", "resume_file_name",
	"resume_text", "status", "last_status_email_sent_at", "last_status_notified", "created_at", "updated_at",
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	sentAt := now.Add(-10 * time.Minute)
	rows := sqlmock.NewRows(appRows).
		AddRow("app-1", "job-1", "user-1", "Jane Doe", "jane@example.com", nil, "resume.pdf",
			"plain text", "interviewing", sentAt, "contacted", now, now)
	mock.ExpectQuery("SELECT id, job_id").
		WithArgs("app-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	app, err := repo.GetByID(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if app.Status != status.Interviewing {
		t.Errorf("status = %q, want interviewing", app.Status)
	}
	if app.LastStatusNotified != status.Contacted {
		t.Errorf("lastStatusNotified = %q, want contacted", app.LastStatusNotified)
	}
	if app.LastStatusEmailSentAt == nil || !app.LastStatusEmailSentAt.Equal(sentAt) {
		t.Errorf("lastStatusEmailSentAt = %v, want %v", app.LastStatusEmailSentAt, sentAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, job_id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(appRows))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE applications SET status").
		WithArgs("app-1", "viewed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.UpdateStatus(context.Background(), "app-1", status.Viewed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE applications SET status").
		WithArgs("missing", "viewed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.UpdateStatus(context.Background(), "missing", status.Viewed); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateStatusNotified(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sentAt := time.Now().UTC()
	mock.ExpectExec("UPDATE applications SET\\s+last_status_email_sent_at").
		WithArgs("app-1", sentAt, "offered").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.UpdateStatusNotified(context.Background(), "app-1", status.Offered, sentAt); err != nil {
		t.Fatalf("UpdateStatusNotified: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
