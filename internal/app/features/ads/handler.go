// internal/app/features/ads/handler.go
package ads

import (
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Handler serves the ad pages.
type Handler struct {
	*crud.Handler[models.Ad]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(), deps)}
}
