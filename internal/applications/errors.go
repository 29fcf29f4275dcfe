package applications

var (
	ErrNotFound  = errNotFound{}
	ErrDuplicate = errDuplicate{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "application not found" }

type errDuplicate struct{}

func (errDuplicate) Error() string { return "application already exists for this job" }
