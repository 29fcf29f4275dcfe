package notify

// Category classifies an outbound notification for gating purposes.
type Category string

const (
	// CategoryCriticalTransactional covers password resets, account
	// verification and similar. Preferences are never consulted.
	CategoryCriticalTransactional Category = "critical_transactional"
	// CategorySystem covers internal and admin notices with no user tied.
	CategorySystem Category = "system"
	// CategoryImportantTransactional covers application lifecycle emails,
	// gated by the applicationUpdates preference.
	CategoryImportantTransactional Category = "important_transactional"
	// CategoryUserNotification covers opt-in content such as job alerts and
	// marketing, gated per event type.
	CategoryUserNotification Category = "user_notification"
)

// Event types flowing through the pipeline.
const (
	EventStatusChanged       = "status_changed"
	EventApplicationReceived = "application_received"
	EventJobAlert            = "job_alert"
	EventPasswordReset       = "password_reset"
	EventAccountVerification = "account_verification"
)
