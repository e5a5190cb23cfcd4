package domain

import "time"

// Role is the closed set of user roles consumed by the authorization policy.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether the given string is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for anyone authenticated through the identity provider.
// The very first user created in the system is assigned RoleAdmin; everyone else
// starts as RoleAttendee. Users are never hard-deleted.
type User struct {
	ID        string
	Email     string
	Name      string
	Picture   *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
