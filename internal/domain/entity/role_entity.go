package entity

import "fmt"

// Role represents an authorization role.
// Capabilities are checked against the tag, there is no role hierarchy.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// Wire names used by the tabular store.
const (
	roleWireUser  = "user"
	roleWireAdmin = "admin"
)

// IsAdministrator reports whether the role carries administrative capabilities.
func (r Role) IsAdministrator() bool { return r == RoleAdministrator }

// WireName returns the persisted form of the role ("user" or "admin").
func (r Role) WireName() string {
	if r == RoleAdministrator {
		return roleWireAdmin
	}
	return roleWireUser
}

// ParseRole accepts both the persisted and the domain spelling.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleWireUser, string(RoleStandard):
		return RoleStandard, nil
	case roleWireAdmin, string(RoleAdministrator):
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}
