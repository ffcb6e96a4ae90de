// internal/app/features/admins/handler.go
package admins

import (
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Handler serves the admin accounts pages.
type Handler struct {
	*crud.Handler[models.User]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(), deps)}
}
