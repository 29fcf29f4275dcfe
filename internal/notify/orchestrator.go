package notify

import (
	"context"
	"time"

	"jobboard-backend/internal/ratelimit"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/status"
)

// StatusContext carries the notification history of an application when the
// event is a status change.
type StatusContext struct {
	ApplicationID   string
	Candidate       status.Status
	LastNotified    status.Status
	LastEmailSentAt *time.Time
}

// Decision is the single gating outcome for an outbound notification.
// WinningStatus is set when a status-change email proceeds because the
// candidate status outranks the previously notified one.
type Decision struct {
	Send          bool
	Reason        string
	Warnings      []string
	WinningStatus status.Status
}

// Orchestrator composes the preference gate, the status suppression policy
// and the soft rate-limit ledger into one decision per outbound notification.
// The decision itself has no side effects; counters and markers move only
// when Confirm is called after a successful delivery.
type Orchestrator struct {
	Gate   *Gate
	Ledger ratelimit.Ledger
	// Window overrides the status suppression window; zero means the default.
	Window time.Duration
	Now    func() time.Time
}

func NewOrchestrator(gate *Gate, ledger ratelimit.Ledger) *Orchestrator {
	return &Orchestrator{Gate: gate, Ledger: ledger}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

// Evaluate runs the gating sequence: preferences, then status suppression,
// then the advisory rate-limit check. The first suppressing step is terminal
// and skips everything after it.
func (o *Orchestrator) Evaluate(ctx context.Context, userID string, category Category, eventType string, sc *StatusContext) Decision {
	gate := o.Gate.CanSend(ctx, userID, category, eventType)
	if !gate.CanSend {
		return Decision{Send: false, Reason: gate.Reason}
	}

	var winning status.Status
	if sc != nil && eventType == EventStatusChanged {
		if !status.ShouldNotify(sc.Candidate) {
			return Decision{Send: false, Reason: "status is not notifiable"}
		}
		d := status.ShouldSuppress(sc.LastEmailSentAt, sc.Candidate, sc.LastNotified, o.now(), o.Window)
		if d.Suppress {
			return Decision{Send: false, Reason: d.Reason}
		}
		winning = d.WinningStatus
	}

	var warnings []string
	if o.Ledger != nil {
		check := o.Ledger.Check(ctx, userID, string(category), eventType)
		if check.Reason != "" {
			warnings = append(warnings, check.Reason)
			fields := map[string]any{
				"user_id":    userID,
				"category":   string(category),
				"event_type": eventType,
				"reason":     check.Reason,
			}
			if check.Counts != nil {
				fields["counts"] = *check.Counts
			}
			telemetry.Warn("notify.ratelimit", fields)
		}
	}

	return Decision{Send: true, Warnings: warnings, WinningStatus: winning}
}

// Confirm records a successful delivery in the rate-limit ledger. It must be
// called only after the transport acknowledged the send; a suppressed or
// failed send never reaches it.
func (o *Orchestrator) Confirm(ctx context.Context, userID string, category Category, eventType string) {
	if o.Ledger == nil {
		return
	}
	if err := o.Ledger.Record(ctx, userID, string(category), eventType); err != nil {
		telemetry.Error("notify.ledger.record_failed", map[string]any{
			"user_id":    userID,
			"category":   string(category),
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
