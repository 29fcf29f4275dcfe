package users

import "time"

// Account roles. Employers manage jobs and move applications through the
// pipeline; candidates apply.
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidRole reports whether v is a recognized account role.
func ValidRole(v string) bool {
	switch v {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}
