package preferences

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"user_id", "job_alerts", "application_updates", "marketing", "created_at", "updated_at"}).
		AddRow("user-1", JobAlertsDaily, false, true, now, now)
	mock.ExpectQuery("SELECT user_id, job_alerts").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	p, err := repo.GetByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if p.JobAlerts != JobAlertsDaily || p.ApplicationUpdates || !p.Marketing {
		t.Fatalf("unexpected prefs: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUserIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT user_id, job_alerts").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "job_alerts", "application_updates", "marketing", "created_at", "updated_at"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByUserID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO email_preferences").
		WithArgs("user-1", JobAlertsNever, true, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	prefs := EmailPreferences{UserID: "user-1", JobAlerts: JobAlertsNever, ApplicationUpdates: true}
	if err := repo.Upsert(context.Background(), prefs); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
