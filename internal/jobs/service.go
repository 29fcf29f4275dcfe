package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput is the employer-supplied part of a job posting.
type CreateInput struct {
	EmployerID  string
	Title       string
	Company     string
	Location    string
	Description string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	if strings.TrimSpace(in.EmployerID) == "" {
		return Job{}, errors.New("employer id is required")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Company) == "" {
		return Job{}, errors.New("title and company are required")
	}
	job := Job{
		ID:          uuid.NewString(),
		EmployerID:  in.EmployerID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		Active:      true,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, job.ID)
}

func (s *Service) GetByID(ctx context.Context, jobID string) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	return s.Repo.GetByID(ctx, jobID)
}

func (s *Service) ListActive(ctx context.Context, limit int) ([]Job, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jobs service not configured")
	}
	return s.Repo.ListActive(ctx, limit)
}

func (s *Service) ListByEmployer(ctx context.Context, employerID string) ([]Job, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jobs service not configured")
	}
	return s.Repo.ListByEmployer(ctx, employerID)
}

// Close deactivates a posting. Only the posting employer may close it.
func (s *Service) Close(ctx context.Context, jobID, employerID string) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if job.EmployerID != employerID {
		return Job{}, ErrNotFound
	}
	job.Active = false
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, jobID)
}

// PostedSince returns active jobs created at or after the cutoff.
func (s *Service) PostedSince(ctx context.Context, since time.Time) ([]Job, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jobs service not configured")
	}
	return s.Repo.ListCreatedSince(ctx, since)
}
