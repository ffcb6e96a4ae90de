// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the lookup settings pages. Reloading is limited to main and
// super admins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.AdminRoles()...))
		pr.Get("/", h.ServeLookups)
		pr.With(sm.RequireRole(models.RoleMainAdmin, models.RoleSuperAdmin)).Post("/reload", h.HandleReload)
	})
	return r
}
