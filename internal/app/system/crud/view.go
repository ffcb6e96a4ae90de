// internal/app/system/crud/view.go
package crud

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type viewData struct {
	viewdata.BaseVM
	ID       string
	Name     string
	Singular string
	BaseURL  string
	SelfURL  string
	Loading  bool
	Tabs     []tabVM
	Actions  []menuItem
	Extra    template.HTML
}

// ServeView renders the detail page. When the entity cannot be fetched the
// page stays on its loading skeleton and the failure is reported as a toast.
func (h *Handler[T]) ServeView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	active := ""
	if len(h.Desc.Tabs.List) > 0 {
		a, ok := h.Desc.Tabs.Resolve(w, r)
		if !ok {
			return
		}
		active = a
	}

	item, err := h.load(r.Context(), id)
	if err != nil {
		if h.ErrLog.Notice(w, r, "load "+string(h.Desc.Kind)+" "+id, err) {
			return
		}
		templates.Render(w, r, "crud_view", viewData{
			BaseVM:   viewdata.NewBaseVM(w, r, h.Desc.Singular, h.Desc.URL()),
			ID:       id,
			Singular: h.Desc.Singular,
			BaseURL:  h.Desc.URL(),
			SelfURL:  h.entityURL(id),
			Loading:  true,
		})
		return
	}

	name := h.Desc.Name(item)
	data := viewData{
		BaseVM:   viewdata.NewBaseVM(w, r, name, h.Desc.URL()),
		ID:       id,
		Name:     name,
		Singular: h.Desc.Singular,
		BaseURL:  h.Desc.URL(),
		SelfURL:  h.entityURL(id),
		Tabs: h.tabs(r, fieldSet{
			schema:   h.Desc.Schema,
			draft:    h.Desc.ToDraft(item),
			readOnly: true,
		}, active),
	}

	base := h.entityURL(id)
	for _, a := range h.actions(r, item) {
		switch a {
		case actionpolicy.View:
			continue
		case actionpolicy.Edit:
			data.Actions = append(data.Actions, menuItem{Label: a.Label(), URL: base + "/edit"})
		case actionpolicy.Approve:
			data.Actions = append(data.Actions, menuItem{Label: a.Label(), URL: base + "/approve", Post: true})
		default:
			data.Actions = append(data.Actions, menuItem{
				Label:       a.Label(),
				URL:         base + "/confirm?action=" + string(a),
				Modal:       true,
				Destructive: a.Destructive(),
			})
		}
	}
	if h.Desc.ViewExtra != nil {
		data.Extra = h.Desc.ViewExtra(item)
	}
	templates.Render(w, r, "crud_view", data)
}
