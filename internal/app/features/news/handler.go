// internal/app/features/news/handler.go
package news

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Handler serves the news pages and the markdown preview.
type Handler struct {
	*crud.Handler[models.News]
}

func NewHandler(deps crud.Deps) *Handler {
	return &Handler{Handler: crud.New(Descriptor(deps.Log), deps)}
}

type previewData struct {
	HTML template.HTML
}

// ServePreview renders posted markdown the way the detail page will.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "parse news preview", err, "Could not read the content.")
		return
	}
	out, err := htmlsanitize.Markdown(r.PostFormValue("content"))
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "render news preview", err, "Could not render the preview.")
		return
	}
	templates.RenderSnippet(w, "news_preview", previewData{HTML: out})
}
