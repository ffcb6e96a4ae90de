// internal/app/features/events/handler.go
package events

import (
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Handler serves the event pages.
type Handler struct {
	*crud.Handler[models.Event]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(), deps)}
}
