// internal/app/features/payments/handler.go
package payments

import (
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Handler serves the payment pages and the spreadsheet export.
type Handler struct {
	*crud.Handler[models.Payment]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(), deps)}
}
