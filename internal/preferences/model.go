package preferences

import "time"

// Job alert cadence values.
const (
	JobAlertsDaily  = "daily"
	JobAlertsWeekly = "weekly"
	JobAlertsNever  = "never"
)

// EmailPreferences governs which notification categories may be emailed to a
// user. Users registered before preferences existed have no row; absence is
// treated as "allow" everywhere.
type EmailPreferences struct {
	UserID             string    `json:"userId"`
	JobAlerts          string    `json:"jobAlerts"`
	ApplicationUpdates bool      `json:"applicationUpdates"`
	Marketing          bool      `json:"marketing"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Defaults returns the preference row created at registration.
func Defaults(userID string) EmailPreferences {
	return EmailPreferences{
		UserID:             userID,
		JobAlerts:          JobAlertsWeekly,
		ApplicationUpdates: true,
		Marketing:          false,
	}
}

// ValidJobAlerts reports whether v is a recognized cadence.
func ValidJobAlerts(v string) bool {
	switch v {
	case JobAlertsDaily, JobAlertsWeekly, JobAlertsNever:
		return true
	default:
		return false
	}
}
