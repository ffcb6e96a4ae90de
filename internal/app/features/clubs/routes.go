// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the club routes.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.AdminRoles()...))
		h.Register(pr)
	})
	return r
}
