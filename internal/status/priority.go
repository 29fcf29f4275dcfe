package status

// Priority ranks the statuses that email the candidate on change. Everything
// else, including hired and withdrawn, ranks zero and never independently
// triggers a status email.
func Priority(s Status) int {
	switch s {
	case Offered:
		return 4
	case Interviewing:
		return 3
	case Contacted:
		return 2
	case Rejected:
		return 1
	default:
		return 0
	}
}

// HigherPriority returns whichever status ranks strictly higher. On a tie the
// left operand wins; callers rely on that to keep an already-notified status
// in place when a same-rank candidate arrives.
func HigherPriority(a, b Status) Status {
	if Priority(b) > Priority(a) {
		return b
	}
	return a
}

// ShouldNotify reports whether a change to s emails the candidate at all.
func ShouldNotify(s Status) bool {
	return Priority(s) > 0
}
