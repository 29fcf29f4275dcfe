package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/extract"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/status"
)

// Service owns the application lifecycle: intake, the status transition path
// and the notifications both trigger. Status notifications flow through the
// dispatcher, which applies preferences, the suppression window and the soft
// rate limits before anything is sent.
type Service struct {
	Repo       Repo
	Jobs       *jobs.Service
	Dispatcher *notify.Dispatcher
}

func NewService(repo Repo, jobsSvc *jobs.Service, dispatcher *notify.Dispatcher) *Service {
	return &Service{Repo: repo, Jobs: jobsSvc, Dispatcher: dispatcher}
}

// ApplyInput is a candidate's submission. Resume payload is optional.
type ApplyInput struct {
	JobID          string
	UserID         string
	FullName       string
	Email          string
	CoverLetter    string
	ResumeFileName string
	ResumeMime     string
	ResumeData     []byte
}

// Apply creates the application and sends the received-confirmation email.
// Resume text extraction and the confirmation email are both best-effort: a
// failure in either never fails the submission.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (Application, error) {
	if s == nil || s.Repo == nil {
		return Application{}, errors.New("applications service not configured")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return Application{}, errors.New("user id is required")
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" {
		return Application{}, errors.New("full name and email are required")
	}

	job, err := s.Jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if !job.Active {
		return Application{}, errors.New("job is no longer accepting applications")
	}

	app := Application{
		ID:             uuid.NewString(),
		JobID:          job.ID,
		UserID:         in.UserID,
		FullName:       strings.TrimSpace(in.FullName),
		Email:          strings.TrimSpace(in.Email),
		CoverLetter:    strings.TrimSpace(in.CoverLetter),
		ResumeFileName: in.ResumeFileName,
		Status:         status.Applied,
	}
	if len(in.ResumeData) > 0 {
		text, err := extract.Text(ctx, in.ResumeData, in.ResumeMime, in.ResumeFileName)
		if err != nil {
			telemetry.Error("applications.resume_extract_failed", map[string]any{
				"job_id":    job.ID,
				"file_name": in.ResumeFileName,
				"error":     err.Error(),
			})
		} else {
			app.ResumeText = text
		}
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	created, err := s.Repo.GetByID(ctx, app.ID)
	if err != nil {
		return Application{}, err
	}

	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, created.UserID, notify.CategoryImportantTransactional, notify.EventApplicationReceived, nil, notify.Email{
			To:       created.Email,
			ToName:   created.FullName,
			Subject:  fmt.Sprintf("Application received: %s at %s", job.Title, job.Company),
			TextBody: receivedEmailBody(created.FullName, job),
		})
	}
	return created, nil
}

// TransitionStatus moves an application along the pipeline on behalf of the
// employer who owns the job. A self-transition is a permitted no-op and never
// notifies. An illegal move returns the *status.TransitionError carrying the
// legal next set.
func (s *Service) TransitionStatus(ctx context.Context, appID, employerID string, to status.Status) (Application, error) {
	if s == nil || s.Repo == nil {
		return Application{}, errors.New("applications service not configured")
	}

	app, err := s.Repo.GetByID(ctx, appID)
	if err != nil {
		return Application{}, err
	}
	job, err := s.Jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return Application{}, err
	}
	if job.EmployerID != employerID {
		return Application{}, ErrNotFound
	}

	if err := status.ValidateTransition(app.Status, to); err != nil {
		return Application{}, err
	}
	if app.Status == to {
		return app, nil
	}

	if err := s.Repo.UpdateStatus(ctx, appID, to); err != nil {
		return Application{}, err
	}
	updated, err := s.Repo.GetByID(ctx, appID)
	if err != nil {
		return Application{}, err
	}

	if s.Dispatcher != nil && status.ShouldNotify(to) {
		s.Dispatcher.Dispatch(ctx, updated.UserID, notify.CategoryImportantTransactional, notify.EventStatusChanged, &notify.StatusContext{
			ApplicationID:   updated.ID,
			Candidate:       to,
			LastNotified:    updated.LastStatusNotified,
			LastEmailSentAt: updated.LastStatusEmailSentAt,
		}, notify.Email{
			To:       updated.Email,
			ToName:   updated.FullName,
			Subject:  fmt.Sprintf("Update on your application: %s at %s", job.Title, job.Company),
			TextBody: statusEmailBody(updated.FullName, job, to),
		})
	}
	return updated, nil
}

// Get returns an application visible to the requester: the applicant or the
// employer who owns the job.
func (s *Service) Get(ctx context.Context, appID, requesterID string) (Application, error) {
	if s == nil || s.Repo == nil {
		return Application{}, errors.New("applications service not configured")
	}
	app, err := s.Repo.GetByID(ctx, appID)
	if err != nil {
		return Application{}, err
	}
	if app.UserID == requesterID {
		return app, nil
	}
	job, err := s.Jobs.GetByID(ctx, app.JobID)
	if err == nil && job.EmployerID == requesterID {
		return app, nil
	}
	return Application{}, ErrNotFound
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("applications service not configured")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// ListForJob returns a job's applications for the employer who owns it.
func (s *Service) ListForJob(ctx context.Context, jobID, employerID string) ([]Application, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("applications service not configured")
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, jobs.ErrNotFound
	}
	return s.Repo.ListByJob(ctx, jobID)
}

func receivedEmailBody(name string, job jobs.Job) string {
	return fmt.Sprintf("Hi %s,\n\nWe received your application for %s at %s. The employer will review it and you will hear back as things move along.\n\nGood luck!",
		name, job.Title, job.Company)
}

func statusEmailBody(name string, job jobs.Job, to status.Status) string {
	var line string
	switch to {
	case status.Contacted:
		line = "The employer would like to get in touch about your application."
	case status.Interviewing:
		line = "Your application has moved to the interview stage."
	case status.Offered:
		line = "Congratulations, you have received an offer!"
	case status.Rejected:
		line = "The employer has decided not to move forward with your application."
	default:
		line = fmt.Sprintf("Your application status is now %q.", to)
	}
	return fmt.Sprintf("Hi %s,\n\n%s\n\nPosition: %s at %s", name, line, job.Title, job.Company)
}
