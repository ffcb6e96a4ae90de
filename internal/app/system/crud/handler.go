// internal/app/system/crud/handler.go
package crud

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/app/system/listquery"
	"github.com/dalemusser/clubdesk/internal/app/system/lookups"
	"github.com/dalemusser/clubdesk/internal/app/system/paging"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListOptions configures the per-session list controllers.
type ListOptions struct {
	Debounce time.Duration
	PageSize int
	StateTTL time.Duration
	MaxLists int
}

// Deps are the shared services every entity handler uses.
type Deps struct {
	Client  *apiclient.Client
	Lookups *lookups.Provider
	ErrLog  *uierrors.ErrorLogger
	Audit   *auditlog.Logger
	Flash   flash.SessionSource
	Log     *zap.Logger
	List    ListOptions
}

// Handler serves one entity.
type Handler[T any] struct {
	Desc    Descriptor[T]
	API     *apiclient.Resource
	Lookups *lookups.Provider
	ErrLog  *uierrors.ErrorLogger
	Audit   *auditlog.Logger
	Flash   flash.SessionSource
	Log     *zap.Logger
	Lists   *listquery.Registry[T]

	// Now stamps expiry-date fallbacks; tests pin it.
	Now func() time.Time

	pageSize int
}

// New builds the handler for desc.
func New[T any](desc Descriptor[T], deps Deps) *Handler[T] {
	h := &Handler[T]{
		Desc:    desc,
		API:     deps.Client.Resource(desc.Resource),
		Lookups: deps.Lookups,
		ErrLog:  deps.ErrLog,
		Audit:   deps.Audit,
		Flash:   deps.Flash,
		Log:     deps.Log.With(zap.String("entity", string(desc.Kind))),
		Now:     time.Now,

		pageSize: deps.List.PageSize,
	}
	if h.pageSize <= 0 {
		h.pageSize = paging.PageSize
	}

	opts := listquery.Options{
		Debounce: deps.List.Debounce,
		PageSize: h.pageSize,
		Logger:   h.Log,
	}
	if desc.usesLookups() && deps.Lookups != nil {
		opts.Ready = deps.Lookups.Ready
	}
	ttl := deps.List.StateTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	h.Lists = listquery.NewRegistry(deps.List.MaxLists, ttl, func() *listquery.Controller[T] {
		return listquery.New(h.fetch, opts)
	})
	return h
}

// Register attaches the standard routes to r. Features call it inside their
// own router after adding any extra routes.
func (h *Handler[T]) Register(r chi.Router) {
	r.Get("/", h.ServeList)
	r.Get("/table", h.ServeTable)

	if !h.Desc.NoCreate {
		r.Get("/new", h.ServeNew)
		r.Post("/", h.HandleCreate)
	}

	r.Get("/{id}", h.ServeView)
	r.Get("/{id}/menu", h.ServeMenu)
	r.Get("/{id}/confirm", h.ServeConfirm)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Post("/{id}/{action}", h.HandleAction)
	r.Post("/{id}/{coll}/{itemID}/remove", h.HandleRemoveItem)
}

// Controller returns the list controller of the request's session.
func (h *Handler[T]) Controller(r *http.Request) *listquery.Controller[T] {
	sid := ""
	if u, ok := auth.CurrentUser(r); ok {
		sid = u.SessionID
	}
	return h.Lists.For(sid, string(h.Desc.Kind))
}

func (h *Handler[T]) fetch(ctx context.Context, q listquery.Query) ([]T, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	var items []T
	total, err := h.API.List(ctx, apiclient.ListParams{
		Keyword: q.Keyword,
		Page:    q.Page,
		Size:    q.Size,
		Filters: q.Filters,
	}, &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// load fetches one entity by id.
func (h *Handler[T]) load(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	var item T
	err := h.API.Get(ctx, id, &item)
	return item, err
}

// toast queues a message for the next page, or fires it at once for HTMX.
func (h *Handler[T]) toast(w http.ResponseWriter, r *http.Request, level flash.Level, msg string, events ...string) {
	if isHTMX(r) {
		flash.Trigger(w, level, msg, events...)
		return
	}
	if h.Flash == nil {
		return
	}
	if err := flash.Add(w, r, h.Flash, level, msg); err != nil {
		h.Log.Warn("queue toast failed", zap.Error(err))
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
