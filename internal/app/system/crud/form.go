// internal/app/system/crud/form.go
package crud

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/diffsync"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/formutil"
	"github.com/dalemusser/clubdesk/internal/app/system/navigation"
	"github.com/dalemusser/clubdesk/internal/app/system/submit"
	"github.com/dalemusser/clubdesk/internal/app/system/tabsync"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type formData struct {
	formutil.Base
	Singular    string
	BaseURL     string
	PostURL     string
	TabURL      string
	Dirty       bool
	IsEdit      bool
	ID          string
	Tabs        []tabVM
	CallbackURL string
	Extra       template.HTML
}

// formState is everything needed to (re)render the add/edit form.
type formState struct {
	schema formdraft.Schema
	draft  formdraft.Draft
	errs   map[string]string
	errMsg string
	id     string // empty on add
}

// ServeNew renders the empty add form.
func (h *Handler[T]) ServeNew(w http.ResponseWriter, r *http.Request) {
	if !h.resolveTab(w, r) {
		return
	}
	h.renderForm(w, r, formState{schema: h.Desc.createSchema(), draft: formdraft.Draft{}})
}

// HandleCreate validates and submits the add form.
func (h *Handler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	schema := h.Desc.createSchema()
	draft, ok := h.readDraft(w, r, schema, "")
	if !ok {
		return
	}
	h.submit(w, r, formState{schema: schema, draft: draft}, nil)
}

// ServeEdit renders the edit form loaded with the entity.
func (h *Handler[T]) ServeEdit(w http.ResponseWriter, r *http.Request) {
	if !h.resolveTab(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	item, ok := h.permitted(w, r, id, actionpolicy.Edit)
	if !ok {
		return
	}
	h.renderForm(w, r, formState{schema: h.Desc.Schema, draft: h.Desc.ToDraft(item), id: id})
}

// HandleEdit validates and submits the edit form. The entity is fetched
// again so the policy and the collection baseline reflect the backend.
func (h *Handler[T]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := h.permitted(w, r, id, actionpolicy.Edit)
	if !ok {
		return
	}
	draft, ok := h.readDraft(w, r, h.Desc.Schema, id)
	if !ok {
		return
	}
	baseline := h.Desc.ToDraft(item)
	h.submit(w, r, formState{schema: h.Desc.Schema, draft: draft, id: id}, baseline)
}

// readDraft parses and validates the form. On failure it writes the
// response (the form again, with the first invalid tab active).
func (h *Handler[T]) readDraft(w http.ResponseWriter, r *http.Request, schema formdraft.Schema, id string) (formdraft.Draft, bool) {
	draft, err := formdraft.FromRequest(r, schema)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse "+string(h.Desc.Kind)+" form", err, "Invalid form data.", h.Desc.URL())
		return nil, false
	}
	if errs := formdraft.Validate(schema, draft); len(errs) > 0 {
		h.renderForm(w, r, formState{schema: schema, draft: draft, errs: errs, id: id})
		return nil, false
	}
	if h.Desc.Authorize != nil {
		if msg := h.Desc.Authorize(r, draft); msg != "" {
			h.Audit.ActionRefused(r.Context(), r, string(h.Desc.Kind), id, "save")
			h.Unauthorized(w, r, msg)
			return nil, false
		}
	}
	return draft, true
}

// submit sends the primary mutation, then uploads and collection batches in
// parallel. A primary failure re-renders the form with the admin's input.
func (h *Handler[T]) submit(w http.ResponseWriter, r *http.Request, st formState, baseline formdraft.Draft) {
	payload := formdraft.Serialize(st.schema, st.draft, h.Now())
	form := apiclient.NewForm(payload.Fields)
	if h.Desc.PrepareForm != nil {
		h.Desc.PrepareForm(r, st.draft, form)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	event := audit.EventEntityCreated
	primary := func(ctx context.Context) (string, error) { return h.API.Create(ctx, form) }
	if st.id != "" {
		event = audit.EventEntityUpdated
		id := st.id
		primary = func(ctx context.Context) (string, error) { return id, h.API.Update(ctx, id, form) }
	}

	res, err := submit.Run(ctx, h.Log, primary, h.secondaries(st.schema, payload, baseline))
	if errors.Is(err, submit.ErrPrimary) {
		h.Audit.EntityAction(r.Context(), r, event, string(h.Desc.Kind), st.id, err, nil)
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.ErrLog.APIError(w, r, "save "+string(h.Desc.Kind), err, h.Desc.URL())
			return
		}
		h.Log.Warn("save failed", zap.String("id", st.id), zap.Error(err))
		st.errMsg = apiclient.UserMessage(err)
		h.renderForm(w, r, st)
		return
	}

	h.Audit.EntityAction(r.Context(), r, event, string(h.Desc.Kind), res.ID, err, map[string]string{
		"completed": fmt.Sprint(len(res.Completed)),
		"failed":    fmt.Sprint(len(res.Failed)),
	})
	h.Controller(r).Invalidate()

	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.ErrLog.APIError(w, r, "save "+string(h.Desc.Kind)+" attachments", err, h.Desc.URL())
			return
		}
		names := make([]string, len(res.Failed))
		for i, f := range res.Failed {
			names[i] = f.Step
		}
		h.toast(w, r, flash.Warning, fmt.Sprintf("%s saved, but these parts failed: %v.", h.Desc.Singular, names))
	} else {
		h.toast(w, r, flash.Success, h.Desc.Singular+" saved.")
	}
	http.Redirect(w, r, navigation.CallbackURL(r, h.Desc.URL()), http.StatusSeeOther)
}

func (h *Handler[T]) secondaries(schema formdraft.Schema, p formdraft.Payload, baseline formdraft.Draft) submit.Secondaries {
	return func(id string) []submit.Step {
		var steps []submit.Step
		for _, up := range p.Uploads {
			steps = append(steps, submit.Step{
				Name: "upload " + up.Field,
				Run: func(ctx context.Context) error {
					return h.API.Upload(ctx, id, up.Field, filePart(up.Field, up.File))
				},
			})
		}
		for _, f := range schema.Collections() {
			items, ok := p.Collections[f.Name]
			if !ok {
				continue
			}
			plan := diffsync.Partition(items, baseline.Items(f.Name), itemID)
			if plan.Empty() {
				continue
			}
			steps = append(steps, submit.Step{
				Name: "sync " + f.Name,
				Run: func(ctx context.Context) error {
					return diffsync.Apply(ctx, h.Log, f.Name, plan, diffsync.Ops[formdraft.Item]{
						Create: func(ctx context.Context, it formdraft.Item) error {
							_, err := h.API.CreateItem(ctx, id, f.Name, itemForm(f, it))
							return err
						},
						Update: func(ctx context.Context, it formdraft.Item) error {
							return h.API.UpdateItem(ctx, id, f.Name, it.ID, itemForm(f, it))
						},
					})
				},
			})
		}
		return steps
	}
}

// resolveTab redirects a tabbed form page without a valid ?tab= to its
// default tab. ok=false means the response was written.
func (h *Handler[T]) resolveTab(w http.ResponseWriter, r *http.Request) bool {
	if len(h.Desc.Tabs.List) == 0 {
		return true
	}
	_, ok := h.Desc.Tabs.Resolve(w, r)
	return ok
}

func (h *Handler[T]) renderForm(w http.ResponseWriter, r *http.Request, st formState) {
	d := h.Desc
	title := "New " + d.Singular
	postURL := d.URL()
	pageURL := d.URL() + "/new"
	if st.id != "" {
		title = "Edit " + d.Singular
		postURL = h.entityURL(st.id) + "/edit"
		pageURL = postURL
	}

	active := h.activeTab(r)
	if len(st.errs) > 0 {
		if tab, ok := tabsync.FirstInvalid(fieldTable(d.Tabs, st.schema), formdraft.Invalid(st.schema, st.errs)); ok {
			active = tab
		}
	}

	// The address bar always names the tab on screen, including after a
	// failed submit switched to the first invalid one.
	var tabURL string
	if len(d.Tabs.List) > 0 {
		tabURL = tabsync.WithTab(pageURL, active)
		postURL = tabsync.WithTab(postURL, active)
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Replace-Url", tabURL)
		}
	}

	data := formData{
		Singular:    d.Singular,
		BaseURL:     d.URL(),
		PostURL:     postURL,
		TabURL:      tabURL,
		Dirty:       len(st.errs) > 0 || st.errMsg != "",
		IsEdit:      st.id != "",
		ID:          st.id,
		CallbackURL: navigation.CallbackURL(r, ""),
		Extra:       d.FormExtra,
		Tabs: h.tabs(r, fieldSet{
			schema:   st.schema,
			draft:    st.draft,
			errs:     st.errs,
			entityID: st.id,
		}, active),
	}
	formutil.SetBase(&data.Base, w, r, title, d.URL())
	if st.errMsg != "" {
		data.SetError(st.errMsg)
	}
	data.SetFieldErrors(st.errs)
	templates.Render(w, r, "crud_form", data)
}

func itemID(it formdraft.Item) string { return it.ID }

// itemForm encodes one collection row. A pending file goes in the same
// multipart body as the row's fields.
func itemForm(f formdraft.Field, it formdraft.Item) *apiclient.Form {
	form := apiclient.NewForm(nil)
	for _, col := range f.Columns {
		if col.Kind == formdraft.File {
			if it.File != nil && it.File.Pending() {
				form.Attach(filePart(col.Name, *it.File))
			}
			continue
		}
		if v := it.Values[col.Name]; v != "" {
			form.Set(col.Name, v)
		}
	}
	return form
}

func filePart(field string, ref formdraft.FileRef) apiclient.FilePart {
	return apiclient.FilePart{
		Field:    field,
		Filename: ref.Name,
		Open: func() (io.ReadCloser, error) {
			return ref.Upload.Open()
		},
	}
}
