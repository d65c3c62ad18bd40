package domain

import "time"

// Role enumerates what an account is allowed to do in the helpdesk.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSupport   Role = "support"
	RoleRequester Role = "requester"
)

// ValidRole reports whether the value belongs to the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSupport, RoleRequester:
		return true
	}
	return false
}

// CanBeAssignee reports whether a user with this role may hold tickets.
// Requesters submit tickets; they never work them.
func (r Role) CanBeAssignee() bool {
	return r == RoleAdmin || r == RoleSupport
}

// User is the single account model. Requesters, support staff and
// admins differ only by role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Avatar       *string
	Department   *string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
