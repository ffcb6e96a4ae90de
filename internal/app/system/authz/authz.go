// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// CanAct reports whether an admin holding actor may edit or remove an
// account holding target.
//
//	MAIN_ADMIN  -> MAIN_ADMIN, SUB_ADMIN
//	SUB_ADMIN   -> SUB_ADMIN
//	SUPER_ADMIN -> any role
//	otherwise   -> nothing
//
// The backend enforces the same rule; this check only keeps the console
// from issuing requests it knows will be refused.
func CanAct(actor, target models.Role) bool {
	switch actor {
	case models.RoleSuperAdmin:
		return true
	case models.RoleMainAdmin:
		return target == models.RoleMainAdmin || target == models.RoleSubAdmin
	case models.RoleSubAdmin:
		return target == models.RoleSubAdmin
	default:
		return false
	}
}

// CanActOn is CanAct for the admin signed in on r.
func CanActOn(r *http.Request, target models.Role) bool {
	role, ok := Role(r)
	return ok && CanAct(role, target)
}

// Role returns the current user's role and whether a user is present.
func Role(r *http.Request) (models.Role, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return models.RoleUnknown, false
	}
	return u.Role, true
}

// UserCtx returns the user's role, name, id, and a found flag.
func UserCtx(r *http.Request) (role models.Role, name string, userID string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return models.RoleUnknown, "", "", false
	}
	return u.Role, u.Name, u.ID, true
}

// IsSuperAdmin reports whether the current request's user is a super admin.
func IsSuperAdmin(r *http.Request) bool {
	role, ok := Role(r)
	return ok && role == models.RoleSuperAdmin
}
