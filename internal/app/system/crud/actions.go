// internal/app/system/crud/actions.go
package crud

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/navigation"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RefreshEvent is the HTMX event the list table listens for to refetch.
const RefreshEvent = "list-refresh"

type menuItem struct {
	Label       string
	URL         string
	Post        bool // posts directly (approve)
	Modal       bool // opens a confirm modal
	Destructive bool
}

type menuData struct {
	ID    string
	Name  string
	Items []menuItem
}

type confirmData struct {
	ID       string
	Name     string
	Singular string
	Action   string
	Label    string
	PostURL  string
	Reason   bool
	Tiers    []optionVM
}

type unauthorizedData struct {
	Message string
}

// ServeMenu renders a row's action menu from the action policy.
func (h *Handler[T]) ServeMenu(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.load(r.Context(), id)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "load "+string(h.Desc.Kind)+" for menu", err, apiclient.UserMessage(err))
		return
	}

	base := h.entityURL(id)
	data := menuData{ID: id, Name: h.Desc.Name(item)}
	for _, a := range h.actions(r, item) {
		mi := menuItem{Label: a.Label(), Destructive: a.Destructive()}
		switch a {
		case actionpolicy.View:
			mi.URL = base
		case actionpolicy.Edit:
			mi.URL = base + "/edit"
		case actionpolicy.Approve:
			mi.URL, mi.Post = base+"/approve", true
		default:
			mi.URL, mi.Modal = base+"/confirm?action="+url.QueryEscape(string(a)), true
		}
		data.Items = append(data.Items, mi)
	}
	templates.RenderSnippet(w, "crud_menu", data)
}

// ServeConfirm renders the confirmation modal of a destructive action or
// the tier picker.
func (h *Handler[T]) ServeConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	act := actionpolicy.ParseAction(query.Get(r, "action"))
	if act == "" || act == actionpolicy.View || act == actionpolicy.Edit {
		uierrors.RenderNotFound(w, r, "Unknown action.", h.Desc.URL())
		return
	}
	item, ok := h.permitted(w, r, id, act)
	if !ok {
		return
	}

	data := confirmData{
		ID:       id,
		Name:     h.Desc.Name(item),
		Singular: h.Desc.Singular,
		Action:   string(act),
		Label:    act.Label(),
		PostURL:  h.entityURL(id) + "/" + actionSegment(act),
		Reason:   act == actionpolicy.Reject,
	}
	if act == actionpolicy.ChangeTier {
		for _, c := range h.choices(r.Context(), "tiers", nil) {
			data.Tiers = append(data.Tiers, optionVM{Value: c.Value, Label: c.Label})
		}
	}
	templates.RenderSnippet(w, "crud_confirm", data)
}

// HandleAction performs remove, approve, reject or change tier. The action
// policy is checked against a fresh copy of the entity first; a refused
// action never reaches the backend.
func (h *Handler[T]) HandleAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	act := actionpolicy.ParseAction(chi.URLParam(r, "action"))
	if act == "" || act == actionpolicy.View || act == actionpolicy.Edit {
		uierrors.RenderNotFound(w, r, "Unknown action.", h.Desc.URL())
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse action form", err, "Invalid form data.", h.Desc.URL())
		return
	}

	if _, ok := h.permitted(w, r, id, act); !ok {
		return
	}

	back := navigation.SafeBackURL(r, navigation.EntityBackURL(h.Desc.URL()))

	var details map[string]string
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var err error
	switch act {
	case actionpolicy.Remove:
		err = h.API.Delete(ctx, id)
	case actionpolicy.Approve:
		err = h.API.Action(ctx, id, "approve", nil)
	case actionpolicy.Reject:
		form := apiclient.NewForm(nil)
		if reason := strings.TrimSpace(r.PostFormValue("reason")); reason != "" {
			form.Set("reason", reason)
			details = map[string]string{"reason": reason}
		}
		err = h.API.Action(ctx, id, "reject", form)
	case actionpolicy.ChangeTier:
		tier := strings.TrimSpace(r.PostFormValue("tier"))
		if tier == "" {
			h.toast(w, r, flash.Warning, "Choose a tier.")
			h.finish(w, r, back, false)
			return
		}
		details = map[string]string{"tier": tier}
		err = h.API.Action(ctx, id, "tier", apiclient.NewForm(nil).Set("tier", tier))
	}

	h.Audit.EntityAction(r.Context(), r, eventFor(act), string(h.Desc.Kind), id, err, details)
	if err != nil {
		h.ErrLog.APIError(w, r, fmt.Sprintf("%s %s %s", act, h.Desc.Kind, id), err, back)
		return
	}

	h.Log.Info("entity action",
		zap.String("action", string(act)), zap.String("id", id))
	h.toast(w, r, flash.Success, fmt.Sprintf("%s %s.", h.Desc.Singular, pastTense(act)), RefreshEvent)
	h.finish(w, r, back, true)
}

// HandleRemoveItem deletes one sub-collection row right away. Rows removed
// in the editor are gone from the backend whether or not the form is saved.
func (h *Handler[T]) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	coll := chi.URLParam(r, "coll")
	itemID := chi.URLParam(r, "itemID")

	if f, ok := h.Desc.Schema.Field(coll); !ok || f.Kind != formdraft.Collection {
		uierrors.RenderNotFound(w, r, "Unknown collection.", h.Desc.URL())
		return
	}
	if _, ok := h.permitted(w, r, id, actionpolicy.Edit); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	err := h.API.DeleteItem(ctx, id, coll, itemID)
	h.Audit.EntityAction(r.Context(), r, audit.EventItemRemoved, string(h.Desc.Kind), id, err,
		map[string]string{"collection": coll, "item_id": itemID})

	editURL := h.entityURL(id) + "/edit"
	if err != nil {
		h.ErrLog.APIError(w, r, "remove "+coll+" item", err, editURL)
		return
	}
	if isHTMX(r) {
		flash.Trigger(w, flash.Success, "Item removed.")
		w.WriteHeader(http.StatusOK)
		return
	}
	h.toast(w, r, flash.Success, "Item removed.")
	http.Redirect(w, r, editURL, http.StatusSeeOther)
}

// actions returns the policy's action set for item and the current admin.
func (h *Handler[T]) actions(r *http.Request, item T) actionpolicy.Set {
	role := models.RoleUnknown
	if u, ok := auth.CurrentUser(r); ok {
		role = u.Role
	}
	return actionpolicy.For(h.Desc.Kind, role, h.Desc.Subject(item))
}

// permitted loads the entity and checks act against the policy. On any
// failure it writes the response and returns ok=false.
func (h *Handler[T]) permitted(w http.ResponseWriter, r *http.Request, id string, act actionpolicy.Action) (T, bool) {
	item, err := h.load(r.Context(), id)
	if err != nil {
		h.ErrLog.APIError(w, r, "load "+string(h.Desc.Kind)+" "+id, err, h.Desc.URL())
		return item, false
	}
	if !h.actions(r, item).Has(act) {
		h.Audit.ActionRefused(r.Context(), r, string(h.Desc.Kind), id, string(act))
		h.Unauthorized(w, r, fmt.Sprintf("You are not allowed to %s this %s.",
			strings.ToLower(act.Label()), strings.ToLower(h.Desc.Singular)))
		return item, false
	}
	return item, true
}

// Unauthorized renders the unauthorized modal for HTMX requests and the
// forbidden page otherwise.
func (h *Handler[T]) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "#modal")
		w.Header().Set("HX-Reswap", "innerHTML")
		templates.RenderSnippet(w, "crud_unauthorized", unauthorizedData{Message: msg})
		return
	}
	uierrors.RenderForbidden(w, r, msg, h.Desc.URL())
}

// finish ends a mutation. HTMX requests from the list get the toast and
// refresh event only; everything else is redirected to back.
func (h *Handler[T]) finish(w http.ResponseWriter, r *http.Request, back string, changed bool) {
	if changed {
		h.Controller(r).Invalidate()
	}
	if isHTMX(r) {
		if r.FormValue("return") != "" {
			w.Header().Set("HX-Redirect", back)
		}
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler[T]) entityURL(id string) string {
	return h.Desc.URL() + "/" + url.PathEscape(id)
}

func actionSegment(a actionpolicy.Action) string {
	if a == actionpolicy.ChangeTier {
		return "tier"
	}
	return string(a)
}

func eventFor(a actionpolicy.Action) string {
	switch a {
	case actionpolicy.Remove:
		return audit.EventEntityRemoved
	case actionpolicy.Approve:
		return audit.EventEntityApproved
	case actionpolicy.Reject:
		return audit.EventEntityRejected
	case actionpolicy.ChangeTier:
		return audit.EventTierChanged
	}
	return audit.EventEntityUpdated
}

func pastTense(a actionpolicy.Action) string {
	switch a {
	case actionpolicy.Remove:
		return "removed"
	case actionpolicy.Approve:
		return "approved"
	case actionpolicy.Reject:
		return "rejected"
	case actionpolicy.ChangeTier:
		return "tier changed"
	}
	return "updated"
}
