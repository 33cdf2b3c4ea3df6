// Package entity contains the core business objects of the project.
package entity

// Role represents the access level of an account.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "USER"
	// RoleAdmin grants access to account-management endpoints.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a string into a Role. The boolean reports whether the
// string named a known role.
func ParseRole(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
