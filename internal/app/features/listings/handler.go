// internal/app/features/listings/handler.go
package listings

import (
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Handler serves the listing pages.
type Handler struct {
	*crud.Handler[models.Listing]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(), deps)}
}
