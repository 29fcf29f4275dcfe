package applications

import "time"

// view is the API shape of an application. Resume text is internal and never
// leaves through list/detail endpoints.
type view struct {
	ID             string     `json:"id"`
	JobID          string     `json:"jobId"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	CoverLetter    string     `json:"coverLetter,omitempty"`
	ResumeFileName string     `json:"resumeFileName,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	LastNotifiedAt *time.Time `json:"lastNotifiedAt,omitempty"`
}

func toView(app Application) view {
	return view{
		ID:             app.ID,
		JobID:          app.JobID,
		FullName:       app.FullName,
		Email:          app.Email,
		CoverLetter:    app.CoverLetter,
		ResumeFileName: app.ResumeFileName,
		Status:         string(app.Status),
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
		LastNotifiedAt: app.LastStatusEmailSentAt,
	}
}

func toViews(apps []Application) []view {
	out := make([]view, 0, len(apps))
	for _, app := range apps {
		out = append(out, toView(app))
	}
	return out
}
