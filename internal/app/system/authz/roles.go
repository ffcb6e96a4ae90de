// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...models.Role) bool {
	cur, ok := Role(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if cur == want {
			return true
		}
	}
	return false
}

// AssignableRoles lists the admin roles actor may grant when creating or
// editing an admin account.
func AssignableRoles(actor models.Role) []models.Role {
	var out []models.Role
	for _, r := range models.AdminRoles() {
		if CanAct(actor, r) {
			out = append(out, r)
		}
	}
	return out
}
