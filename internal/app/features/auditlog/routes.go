// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is mounted
// (typically "/audit"). Only main and super admins may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleMainAdmin, models.RoleSuperAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}
