// Package domain contains core business entities and rules.
package domain

// Role classifies a user's privilege level.
type Role string

const (
	// RoleMember is a regular forum member.
	RoleMember Role = "member"

	// RoleAdmin is a forum administrator.
	RoleAdmin Role = "admin"
)

// User is a forum participant. Users are loaded from the upstream forum
// service and are immutable afterwards; questions and answers reference
// them without owning them.
type User struct {
	// ID is the upstream-assigned identifier.
	ID string

	// Username is the display name.
	Username string

	// Email is the registered email address.
	Email string

	// Role is the privilege level (member or admin).
	Role Role

	// Avatar is an opaque avatar marker rendered by the presentation layer.
	Avatar string
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
