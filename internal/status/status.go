// Package status implements the application status machine: the legal
// transition graph, the notification priority order and the suppression
// window that together decide whether a status change emails the candidate.
package status

import (
	"errors"
	"fmt"
	"strings"
)

// Status is an application's position in the hiring pipeline.
type Status string

const (
	Applied      Status = "applied"
	Viewed       Status = "viewed"
	Contacted    Status = "contacted"
	Interviewing Status = "interviewing"
	Offered      Status = "offered"
	Hired        Status = "hired"
	// Accepted predates the offered/hired split and survives on old rows.
	// It behaves like offered: the only moves left are hired or rejected.
	Accepted  Status = "accepted"
	Rejected  Status = "rejected"
	Withdrawn Status = "withdrawn"
)

// ErrUnknownStatus reports a status value outside the enumeration.
var ErrUnknownStatus = errors.New("unknown application status")

// All returns every recognized status in pipeline order.
func All() []Status {
	return []Status{Applied, Viewed, Contacted, Interviewing, Offered, Hired, Accepted, Rejected, Withdrawn}
}

// Parse normalizes raw input into a Status, rejecting anything outside the
// enumeration.
func Parse(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !IsValid(s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// IsValid reports whether s is a recognized status.
func IsValid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s admits no further transitions. Terminal
// statuses are immutable once set.
func IsTerminal(s Status) bool {
	switch s {
	case Hired, Rejected, Withdrawn:
		return true
	default:
		return false
	}
}
