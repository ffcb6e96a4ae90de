// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"slices"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/app/system/lookups"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler shows the cached lookup tables and reloads them on demand.
type Handler struct {
	Lookups  *lookups.Provider
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Flash    flash.SessionSource
	Log      *zap.Logger
}

func NewHandler(p *lookups.Provider, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, src flash.SessionSource, logger *zap.Logger) *Handler {
	return &Handler{Lookups: p, ErrLog: errLog, AuditLog: audit, Flash: src, Log: logger}
}

type tableVM struct {
	Name    string
	Options []models.LookupOption
	Error   string
}

type lookupsVM struct {
	viewdata.BaseVM
	Ready  bool
	Tables []tableVM
}

// ServeLookups lists every configured table with its current entries.
func (h *Handler) ServeLookups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	vm := lookupsVM{
		BaseVM: viewdata.NewBaseVM(w, r, "Lookup tables", "/"),
		Ready:  h.Lookups.Ready(),
	}
	for _, t := range h.Lookups.Tables() {
		tv := tableVM{Name: t}
		opts, err := h.Lookups.Options(ctx, t)
		if err != nil {
			tv.Error = "Could not load this table."
		}
		tv.Options = opts
		vm.Tables = append(vm.Tables, tv)
	}
	templates.Render(w, r, "settings_lookups", vm)
}

// HandleReload drops the cache for one table (form value "table") or all of
// them, then loads them again so the next list page sees fresh options.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	table := r.FormValue("table")
	if table != "" && !slices.Contains(h.Lookups.Tables(), table) {
		h.ErrLog.LogBadRequest(w, r, "reload unknown lookup table", nil, "Unknown lookup table.", "/settings")
		return
	}

	h.Lookups.Invalidate(table)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	var err error
	if table == "" {
		err = h.Lookups.Warm(ctx)
	} else {
		_, err = h.Lookups.Options(ctx, table)
	}
	h.AuditLog.LookupsReloaded(r.Context(), r, table, err)

	level, msg := flash.Success, "Lookup tables reloaded."
	if err != nil {
		h.Log.Warn("lookup reload failed", zap.String("table", table), zap.Error(err))
		level, msg = flash.Warning, "Some lookup tables could not be reloaded."
	}
	if h.Flash != nil {
		if ferr := flash.Add(w, r, h.Flash, level, msg); ferr != nil {
			h.Log.Warn("queue toast failed", zap.Error(ferr))
		}
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
