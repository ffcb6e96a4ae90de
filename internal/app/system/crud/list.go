// internal/app/system/crud/list.go
package crud

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/listquery"
	"github.com/dalemusser/clubdesk/internal/app/system/paging"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

type cellVM struct {
	Text   string
	Status bool
	Class  string
}

type rowVM struct {
	ID      string
	Cells   []cellVM
	ViewURL string
	MenuURL string
}

type optionVM struct {
	Value    string
	Label    string
	Selected bool
}

type filterVM struct {
	Name    string
	Label   string
	Value   string
	Options []optionVM
}

type tableData struct {
	Kind     string
	Singular string
	BaseURL  string
	Columns  []string
	Rows     []rowVM
	Paging   paging.Info
	Query    listquery.Query
	Encoded  string
	PrevURL  string
	NextURL  string
	Sizes    []int
	NotReady bool
	Loading  bool
}

type listData struct {
	viewdata.BaseVM
	Table     tableData
	Keyword   string
	Filters   []filterVM
	CanCreate bool
	Toolbar   []ToolbarLink
}

// ServeList renders the list page. The URL carries the list state, so a
// reload or shared link opens the same page of the same search.
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	q := listquery.FromValues(r.URL.Query(), h.Desc.filterNames(), h.pageSize)
	ctx := r.Context()

	snap, err := h.Controller(r).Replace(ctx, q)
	notReady := errors.Is(err, listquery.ErrNotReady)
	if err != nil && !notReady && !isDropped(err) {
		if h.ErrLog.Notice(w, r, "list "+string(h.Desc.Kind)+" failed", err) {
			return
		}
	}

	table := h.table(snap)
	table.NotReady = notReady

	data := listData{
		BaseVM:    viewdata.NewBaseVM(w, r, h.Desc.Title, "/"),
		Table:     table,
		Keyword:   snap.Query.Keyword,
		Filters:   h.filters(ctx, snap.Query),
		CanCreate: !h.Desc.NoCreate,
		Toolbar:   h.toolbar(snap.Query),
	}
	templates.Render(w, r, "crud_list", data)
}

// ServeTable answers the HTMX table swaps. op selects the state change:
// keyword, filter, page or refresh. A keyword superseded inside the
// debounce window, or a response overtaken by a newer one, gets 204 so the
// browser keeps the table it has.
func (h *Handler[T]) ServeTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctl := h.Controller(r)

	var (
		snap listquery.Snapshot[T]
		err  error
	)
	switch query.Get(r, "op") {
	case "keyword":
		snap, err = ctl.SetKeyword(ctx, query.Get(r, "keyword"))
	case "filter":
		snap, err = ctl.SetFilter(ctx, query.Get(r, "name"), query.Get(r, "value"))
	case "page":
		snap, err = ctl.SetPage(ctx, paging.ParsePage(r), paging.ParseSize(r, 0))
	case "refresh":
		snap, err = ctl.Refetch(ctx)
	default:
		snap, err = ctl.Replace(ctx, listquery.FromValues(r.URL.Query(), h.Desc.filterNames(), h.pageSize))
	}

	notReady := errors.Is(err, listquery.ErrNotReady)
	switch {
	case isDropped(err):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil && !notReady:
		if h.ErrLog.Notice(w, r, "list "+string(h.Desc.Kind)+" failed", err) {
			return
		}
	}

	table := h.table(snap)
	table.NotReady = notReady
	if isHTMX(r) {
		w.Header().Set("HX-Replace-Url", h.listURL(snap.Query))
	}
	templates.RenderSnippet(w, "crud_table", table)
}

func isDropped(err error) bool {
	return errors.Is(err, listquery.ErrSuperseded) || errors.Is(err, listquery.ErrStale)
}

func (h *Handler[T]) listURL(q listquery.Query) string {
	if enc := q.Encode(); enc != "" {
		return h.Desc.URL() + "?" + enc
	}
	return h.Desc.URL()
}

func (h *Handler[T]) table(snap listquery.Snapshot[T]) tableData {
	d := h.Desc
	info := paging.Compute(snap.Query.Page, snap.Query.Size, snap.Total)

	t := tableData{
		Kind:     string(d.Kind),
		Singular: d.Singular,
		BaseURL:  d.URL(),
		Paging:   info,
		Query:    snap.Query,
		Encoded:  snap.Query.Encode(),
		Sizes:    paging.SizeOptions,
		Loading:  !snap.Loaded,
	}
	for _, c := range d.Columns {
		t.Columns = append(t.Columns, c.Label)
	}
	if info.HasPrev {
		t.PrevURL = h.listURL(snap.Query.WithPage(info.PrevPage))
	}
	if info.HasNext {
		t.NextURL = h.listURL(snap.Query.WithPage(info.NextPage))
	}

	for _, item := range snap.Items {
		id := d.ID(item)
		row := rowVM{
			ID:      id,
			ViewURL: d.URL() + "/" + url.PathEscape(id),
			MenuURL: d.URL() + "/" + url.PathEscape(id) + "/menu",
		}
		for _, c := range d.Columns {
			v := c.Value(item)
			cell := cellVM{Text: v, Status: c.Status}
			if c.Status {
				st := models.ParseStatus(v)
				cell.Text = st.Label()
				cell.Class = statusClass(st)
			}
			row.Cells = append(row.Cells, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (h *Handler[T]) filters(ctx context.Context, q listquery.Query) []filterVM {
	out := make([]filterVM, 0, len(h.Desc.Filters))
	for _, f := range h.Desc.Filters {
		vm := filterVM{Name: f.Name, Label: f.Label, Value: q.Filters[f.Name]}
		for _, c := range h.choices(ctx, f.Lookup, f.Choices) {
			vm.Options = append(vm.Options, optionVM{Value: c.Value, Label: c.Label, Selected: c.Value == vm.Value})
		}
		out = append(out, vm)
	}
	return out
}

// choices resolves a lookup table, falling back to fixed choices.
func (h *Handler[T]) choices(ctx context.Context, lookup string, fixed []formdraft.Choice) []formdraft.Choice {
	if lookup == "" || h.Lookups == nil {
		return fixed
	}
	opts, err := h.Lookups.Options(ctx, lookup)
	if err != nil {
		return fixed
	}
	out := make([]formdraft.Choice, len(opts))
	for i, o := range opts {
		out[i] = formdraft.Choice{Value: o.Value, Label: o.Label}
	}
	return out
}

func statusClass(st models.Status) string {
	switch {
	case st == models.StatusActive, st == models.StatusApproved, st == models.StatusPublished:
		return "badge-success"
	case st.IsPending(), st == models.StatusDraft:
		return "badge-warning"
	case st == models.StatusDeleted, st == models.StatusRejected, st == models.StatusExpired:
		return "badge-danger"
	}
	return "badge-muted"
}

// toolbar carries the current list state on every link so exports and
// similar actions see the same rows.
func (h *Handler[T]) toolbar(q listquery.Query) []ToolbarLink {
	out := make([]ToolbarLink, len(h.Desc.Toolbar))
	for i, l := range h.Desc.Toolbar {
		out[i] = l
		if enc := q.Encode(); enc != "" {
			sep := "?"
			if strings.Contains(l.URL, "?") {
				sep = "&"
			}
			out[i].URL += sep + enc
		}
	}
	return out
}

// LookupChoices returns the options of a settings table for feature pages
// that render their own selects.
func (h *Handler[T]) LookupChoices(ctx context.Context, table string) []formdraft.Choice {
	return h.choices(ctx, table, nil)
}
