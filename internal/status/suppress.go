package status

import "time"

// SuppressionWindow is how long after a status email a lower-or-equal
// priority status change stays silent.
const SuppressionWindow = 30 * time.Minute

// SuppressDecision is the outcome of the suppression-window check.
// WinningStatus is set when the candidate proceeds because it strictly
// outranks the previously notified status; the caller should overwrite the
// last-notified marker with it.
type SuppressDecision struct {
	Suppress      bool
	Reason        string
	WinningStatus Status
}

// ShouldSuppress decides whether a candidate status email inside the window
// since lastSentAt should be dropped. A nil lastSentAt means no email was
// ever sent, so nothing is suppressed. Reaching the window boundary counts as
// elapsed. When history is incomplete (the prior notified status is unknown)
// the call suppresses rather than risk a duplicate send. A zero window means
// SuppressionWindow.
func ShouldSuppress(lastSentAt *time.Time, candidate, lastNotified Status, now time.Time, window time.Duration) SuppressDecision {
	if lastSentAt == nil {
		return SuppressDecision{}
	}
	if window <= 0 {
		window = SuppressionWindow
	}
	if now.Sub(*lastSentAt) >= window {
		return SuppressDecision{}
	}

	if !IsValid(lastNotified) {
		return SuppressDecision{Suppress: true, Reason: "inside suppression window, prior status unknown"}
	}

	winner := HigherPriority(candidate, lastNotified)
	if winner == candidate && Priority(candidate) > Priority(lastNotified) {
		return SuppressDecision{WinningStatus: candidate}
	}
	return SuppressDecision{
		Suppress: true,
		Reason:   "inside suppression window, candidate status has lower or equal priority than last notified",
	}
}
