// internal/app/features/vendors/handler.go
package vendors

import (
	"context"

	"github.com/dalemusser/clubdesk/internal/app/store/drafts"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// DraftStore keeps wizard progress between requests.
type DraftStore interface {
	Save(ctx context.Context, d drafts.Draft) error
	Load(ctx context.Context, sessionID, name string) (drafts.Draft, error)
	Delete(ctx context.Context, sessionID, name string) error
}

// Handler serves the vendor pages and the registration wizard.
type Handler struct {
	*crud.Handler[models.Vendor]
	Client *apiclient.Client
	Drafts DraftStore
}

func NewHandler(deps crud.Deps, store DraftStore) *Handler {
	return &Handler{
		Handler: crud.New(Descriptor(), deps),
		Client:  deps.Client,
		Drafts:  store,
	}
}
