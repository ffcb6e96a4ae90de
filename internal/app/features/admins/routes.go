// internal/app/features/admins/routes.go
package admins

import (
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin account routes.
// Typically: r.Mount("/admins", admins.Routes(h, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.AdminRoles()...))
		h.Register(pr)
	})
	return r
}
