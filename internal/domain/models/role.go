// internal/domain/models/role.go
package models

import "strings"

// Role is the backend's user role. It is a closed set: strings the console
// does not know parse to RoleUnknown, which is never granted anything.
type Role string

const (
	RoleUnknown     Role = ""
	RoleMainAdmin   Role = "MAIN_ADMIN"
	RoleSubAdmin    Role = "SUB_ADMIN"
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleUser        Role = "USER"
	RoleSponsorship Role = "SPONSORSHIP"
	RoleVendor      Role = "VENDOR"
)

var roleLabels = map[Role]string{
	RoleMainAdmin:   "Main admin",
	RoleSubAdmin:    "Sub admin",
	RoleSuperAdmin:  "Super admin",
	RoleUser:        "User",
	RoleSponsorship: "Sponsorship",
	RoleVendor:      "Vendor",
}

// ParseRole maps a backend role string onto the closed Role set.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseRole(s string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := roleLabels[r]; ok {
		return r
	}
	return RoleUnknown
}

// AdminRoles lists the roles allowed to sign in to the console.
func AdminRoles() []Role {
	return []Role{RoleSuperAdmin, RoleMainAdmin, RoleSubAdmin}
}

// IsAdmin reports whether r is one of the console admin roles.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleMainAdmin, RoleSubAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// Label returns a human-readable name for the role.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return "Unknown"
}

func (r Role) String() string { return string(r) }
