package applications

import (
	"time"

	"jobboard-backend/internal/status"
)

// Application is a candidate's submission to a job. Status moves only through
// the transition graph; the two notification markers are written only when a
// status email is actually delivered, never on attempt.
type Application struct {
	ID             string        `json:"id"`
	JobID          string        `json:"jobId"`
	UserID         string        `json:"userId"`
	FullName       string        `json:"fullName"`
	Email          string        `json:"email"`
	CoverLetter    string        `json:"coverLetter,omitempty"`
	ResumeFileName string        `json:"resumeFileName,omitempty"`
	ResumeText     string        `json:"resumeText,omitempty"`
	Status         status.Status `json:"status"`

	LastStatusEmailSentAt *time.Time    `json:"lastStatusEmailSentAt,omitempty"`
	LastStatusNotified    status.Status `json:"lastStatusNotified,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
