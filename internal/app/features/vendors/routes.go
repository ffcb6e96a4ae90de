// internal/app/features/vendors/routes.go
package vendors

import (
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the vendor routes. The wizard owns /new.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.AdminRoles()...))
		pr.Get("/new", h.ServeWizard)
		pr.Post("/new", h.HandleWizard)
		h.Register(pr)
	})
	return r
}
