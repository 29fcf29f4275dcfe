package status

import (
	"fmt"
	"strings"
)

// transitions is the directed edge set of the pipeline. Terminal statuses
// are present with an empty next set so membership doubles as validity.
var transitions = map[Status][]Status{
	Applied:      {Viewed, Withdrawn, Rejected},
	Viewed:       {Contacted, Rejected, Withdrawn},
	Contacted:    {Interviewing, Rejected},
	Interviewing: {Offered, Rejected},
	Offered:      {Hired, Rejected},
	Accepted:     {Hired, Rejected},
	Hired:        {},
	Rejected:     {},
	Withdrawn:    {},
}

// AllowedNext returns the statuses reachable from s in one step. Terminal
// statuses yield an empty slice.
func AllowedNext(s Status) ([]Status, error) {
	next, ok := transitions[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out, nil
}

// IsTransitionAllowed reports whether from may move to to. A self-transition
// is always a permitted no-op, including from a terminal status.
func IsTransitionAllowed(from, to Status) bool {
	if !IsValid(from) || !IsValid(to) {
		return false
	}
	if from == to {
		return true
	}
	if IsTerminal(from) {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError reports an illegal move, carrying the full legal next set
// so callers can render an actionable message.
type TransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot change status from terminal state %q", e.From)
	}
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot change status from %q to %q; allowed: %s", e.From, e.To, strings.Join(allowed, ", "))
}

// ValidateTransition returns nil for a no-op or a legal edge, ErrUnknownStatus
// for values outside the enumeration, and a *TransitionError otherwise.
func ValidateTransition(from, to Status) error {
	if !IsValid(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !IsValid(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if IsTransitionAllowed(from, to) {
		return nil
	}
	allowed, _ := AllowedNext(from)
	return &TransitionError{From: from, To: to, Allowed: allowed}
}
