package notify

import (
	"context"
	"errors"
	"strings"

	"jobboard-backend/internal/preferences"
	"jobboard-backend/internal/shared/telemetry"
)

// GateDecision says whether a notification class may be sent to a user at all.
type GateDecision struct {
	CanSend bool
	Reason  string
}

// Gate applies per-user email preferences to a notification category. It is
// read-only: it never mutates preference state.
type Gate struct {
	Prefs preferences.Repo
}

func NewGate(prefs preferences.Repo) *Gate {
	return &Gate{Prefs: prefs}
}

// CanSend decides whether the category/event combination is allowed for the
// user. Anonymous recipients and the critical/system categories are always
// allowed. A missing preference row means "allow" (legacy accounts), and an
// infrastructure error reading preferences fails open: sending must never be
// blocked by a lookup fault.
func (g *Gate) CanSend(ctx context.Context, userID string, category Category, eventType string) GateDecision {
	if strings.TrimSpace(userID) == "" {
		return GateDecision{CanSend: true}
	}
	switch category {
	case CategoryCriticalTransactional, CategorySystem:
		return GateDecision{CanSend: true}
	}

	if g == nil || g.Prefs == nil {
		return GateDecision{CanSend: true}
	}
	prefs, err := g.Prefs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, preferences.ErrNotFound) {
			return GateDecision{CanSend: true}
		}
		telemetry.Error("notify.gate.lookup_failed", map[string]any{
			"user_id":    userID,
			"category":   string(category),
			"event_type": eventType,
			"error":      err.Error(),
		})
		return GateDecision{CanSend: true}
	}

	switch category {
	case CategoryImportantTransactional:
		if !prefs.ApplicationUpdates {
			return GateDecision{CanSend: false, Reason: "user has disabled application update emails"}
		}
		return GateDecision{CanSend: true}
	case CategoryUserNotification:
		switch {
		case eventType == EventJobAlert:
			if prefs.JobAlerts == preferences.JobAlertsNever {
				return GateDecision{CanSend: false, Reason: "user has disabled job alert emails"}
			}
			return GateDecision{CanSend: true}
		case strings.HasPrefix(eventType, "marketing"):
			if !prefs.Marketing {
				return GateDecision{CanSend: false, Reason: "user has not opted into marketing emails"}
			}
			return GateDecision{CanSend: true}
		default:
			return GateDecision{CanSend: true}
		}
	default:
		return GateDecision{CanSend: true}
	}
}
