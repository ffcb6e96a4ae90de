// internal/app/features/clubs/handler.go
package clubs

import (
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Handler serves the club pages.
type Handler struct {
	*crud.Handler[models.Club]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(), deps)}
}
