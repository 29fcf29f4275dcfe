package applications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/preferences"
	"jobboard-backend/internal/ratelimit"
	"jobboard-backend/internal/status"
)

type fixture struct {
	svc    *Service
	repo   *MemoryRepo
	jobs   *jobs.Service
	mailer *notify.MemoryMailer
	ledger *ratelimit.MemoryLedger
	disp   *notify.Dispatcher
	now    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	ledger := ratelimit.NewMemoryLedger(clock)
	orch := notify.NewOrchestrator(notify.NewGate(preferences.NewMemoryRepo()), ledger)
	orch.Now = clock
	mailer := notify.NewMemoryMailer()
	repo := NewMemoryRepo()
	disp := notify.NewDispatcher(orch, mailer)
	disp.Markers = repo
	disp.Now = clock

	jobsSvc := jobs.NewService(jobs.NewMemoryRepo())
	return &fixture{
		svc:    NewService(repo, jobsSvc, disp),
		repo:   repo,
		jobs:   jobsSvc,
		mailer: mailer,
		ledger: ledger,
		disp:   disp,
		now:    &now,
	}
}

func (f *fixture) advance(d time.Duration) { *f.now = f.now.Add(d) }

func (f *fixture) postJob(t *testing.T) jobs.Job {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), jobs.CreateInput{
		EmployerID: "employer-1",
		Title:      "Backend Engineer",
		Company:    "Acme",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func (f *fixture) apply(t *testing.T, jobID string) Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), ApplyInput{
		JobID:    jobID,
		UserID:   "candidate-1",
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	f.disp.Wait()
	return app
}

func TestApplySendsConfirmation(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)

	app := f.apply(t, job.ID)
	if app.Status != status.Applied {
		t.Errorf("new application status = %q, want applied", app.Status)
	}

	sent := f.mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1 confirmation", len(sent))
	}
	if sent[0].To != "jane@example.com" || !strings.Contains(sent[0].Subject, "Application received") {
		t.Errorf("confirmation = %+v", sent[0])
	}
	if counts := f.ledger.Snapshot(context.Background(), "candidate-1"); counts.TotalHourly != 1 {
		t.Errorf("ledger counts = %+v, want total 1", counts)
	}
}

func TestApplyDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)
	f.apply(t, job.ID)

	_, err := f.svc.Apply(context.Background(), ApplyInput{
		JobID:    job.ID,
		UserID:   "candidate-1",
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second apply err = %v, want ErrDuplicate", err)
	}
}

func TestTransitionStatusOwnership(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)
	app := f.apply(t, job.ID)

	if _, err := f.svc.TransitionStatus(context.Background(), app.ID, "someone-else", status.Viewed); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign employer transition err = %v, want ErrNotFound", err)
	}
}

func TestTransitionStatusIllegalMove(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)
	app := f.apply(t, job.ID)

	_, err := f.svc.TransitionStatus(context.Background(), app.ID, "employer-1", status.Offered)
	var te *status.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *status.TransitionError", err)
	}
	if te.From != status.Applied || te.To != status.Offered {
		t.Errorf("error carries %q -> %q", te.From, te.To)
	}

	got, err := f.svc.Get(context.Background(), app.ID, "candidate-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != status.Applied {
		t.Errorf("status after rejected transition = %q, want applied", got.Status)
	}
}

func TestTransitionStatusSelfNoOp(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)
	app := f.apply(t, job.ID)
	before := len(f.mailer.Sent())

	got, err := f.svc.TransitionStatus(context.Background(), app.ID, "employer-1", status.Applied)
	if err != nil {
		t.Fatalf("self transition: %v", err)
	}
	f.disp.Wait()
	if got.Status != status.Applied {
		t.Errorf("status = %q, want applied", got.Status)
	}
	if len(f.mailer.Sent()) != before {
		t.Error("self transition sent an email")
	}
}

func TestTransitionFromTerminalRefused(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)
	app := f.apply(t, job.ID)

	if _, err := f.svc.TransitionStatus(context.Background(), app.ID, "employer-1", status.Rejected); err != nil {
		t.Fatalf("applied -> rejected: %v", err)
	}
	f.disp.Wait()

	_, err := f.svc.TransitionStatus(context.Background(), app.ID, "employer-1", status.Viewed)
	var te *status.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("terminal transition err = %v, want *status.TransitionError", err)
	}
	if len(te.Allowed) != 0 {
		t.Errorf("terminal allowed set = %v, want empty", te.Allowed)
	}
}

// Walks a full pipeline and checks which transitions email the candidate:
// viewed is silent, contacted and interviewing send, and a rejection five
// minutes after the interviewing email stays inside the suppression window
// and is dropped with markers untouched.
func TestLifecycleNotificationSequence(t *testing.T) {
	f := newFixture(t)
	job := f.postJob(t)
	app := f.apply(t, job.ID)
	ctx := context.Background()

	move := func(to status.Status) Application {
		t.Helper()
		got, err := f.svc.TransitionStatus(ctx, app.ID, "employer-1", to)
		if err != nil {
			t.Fatalf("transition to %q: %v", to, err)
		}
		f.disp.Wait()
		return got
	}

	// applied -> viewed: not notifiable, nothing sent beyond the confirmation.
	move(status.Viewed)
	if n := len(f.mailer.Sent()); n != 1 {
		t.Fatalf("after viewed: %d emails, want 1", n)
	}

	// viewed -> contacted: first status email, markers written.
	move(status.Contacted)
	if n := len(f.mailer.Sent()); n != 2 {
		t.Fatalf("after contacted: %d emails, want 2", n)
	}
	got, _ := f.repo.GetByID(ctx, app.ID)
	if got.LastStatusNotified != status.Contacted || got.LastStatusEmailSentAt == nil {
		t.Fatalf("markers after contacted = %q / %v", got.LastStatusNotified, got.LastStatusEmailSentAt)
	}

	// Ten minutes later, contacted -> interviewing: still inside the window
	// but strictly higher priority, so it escalates and overwrites markers.
	f.advance(10 * time.Minute)
	move(status.Interviewing)
	if n := len(f.mailer.Sent()); n != 3 {
		t.Fatalf("after interviewing: %d emails, want 3", n)
	}
	got, _ = f.repo.GetByID(ctx, app.ID)
	if got.LastStatusNotified != status.Interviewing {
		t.Fatalf("markers after interviewing = %q", got.LastStatusNotified)
	}
	interviewingSentAt := *got.LastStatusEmailSentAt

	// Five minutes later, interviewing -> rejected: lower priority inside the
	// window. The status changes but the email is suppressed and the markers
	// keep pointing at the interviewing notification.
	f.advance(5 * time.Minute)
	move(status.Rejected)
	if n := len(f.mailer.Sent()); n != 3 {
		t.Fatalf("after rejected: %d emails, want 3 (suppressed)", n)
	}
	got, _ = f.repo.GetByID(ctx, app.ID)
	if got.Status != status.Rejected {
		t.Errorf("status = %q, want rejected", got.Status)
	}
	if got.LastStatusNotified != status.Interviewing || !got.LastStatusEmailSentAt.Equal(interviewingSentAt) {
		t.Errorf("markers moved on a suppressed send: %q / %v", got.LastStatusNotified, got.LastStatusEmailSentAt)
	}

	if counts := f.ledger.Snapshot(ctx, "candidate-1"); counts.StatusHourly != 2 || counts.TotalHourly != 3 {
		t.Errorf("ledger counts = %+v, want status 2 total 3", counts)
	}
}
