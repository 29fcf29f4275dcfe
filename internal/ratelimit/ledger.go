package ratelimit

import "context"

// Soft per-user notification volume thresholds. These are advisory: a send is
// never blocked, but crossing a threshold surfaces a warning for operators.
const (
	MaxEmailsPerHour       = 20
	MaxEmailsPerDay        = 100
	MaxStatusEmailsPerHour = 5
	MaxJobAlertsPerHour    = 1
	MaxJobAlertsPerDay     = 3
)

// Event types the ledger tracks beyond the overall totals.
const (
	eventStatusChanged = "status_changed"
	eventJobAlert      = "job_alert"
)

// Counts is a snapshot of a user's rolling counters.
type Counts struct {
	TotalHourly    int `json:"totalHourly"`
	TotalDaily     int `json:"totalDaily"`
	StatusHourly   int `json:"statusHourly"`
	JobAlertHourly int `json:"jobAlertHourly"`
	JobAlertDaily  int `json:"jobAlertDaily"`
}

// CheckResult is the outcome of a soft rate-limit check. ShouldAllow is
// always true; Reason and Counts are populated when any applicable threshold
// is met or exceeded.
type CheckResult struct {
	ShouldAllow bool
	Reason      string
	Counts      *Counts
}

// Ledger tracks per-user outbound notification volume. Implementations must
// be safe for concurrent use; anonymous sends (empty user id) are never
// tracked.
type Ledger interface {
	Check(ctx context.Context, userID, category, eventType string) CheckResult
	Record(ctx context.Context, userID, category, eventType string) error
	Snapshot(ctx context.Context, userID string) Counts
	Reset(ctx context.Context, userID string) error
}

func isStatusEmail(eventType string) bool { return eventType == eventStatusChanged }
func isJobAlert(eventType string) bool    { return eventType == eventJobAlert }

// exceededReason returns the first threshold warning that applies to the
// given counts for this event type, or "".
func exceededReason(c Counts, eventType string) string {
	switch {
	case isJobAlert(eventType) && c.JobAlertHourly >= MaxJobAlertsPerHour:
		return "Hourly limit exceeded: job alerts"
	case isJobAlert(eventType) && c.JobAlertDaily >= MaxJobAlertsPerDay:
		return "Daily limit exceeded: job alerts"
	case isStatusEmail(eventType) && c.StatusHourly >= MaxStatusEmailsPerHour:
		return "Hourly limit exceeded: status emails"
	case c.TotalHourly >= MaxEmailsPerHour:
		return "Hourly limit exceeded: total emails"
	case c.TotalDaily >= MaxEmailsPerDay:
		return "Daily limit exceeded: total emails"
	default:
		return ""
	}
}
