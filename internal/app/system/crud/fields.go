// internal/app/system/crud/fields.go
package crud

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/tabsync"
)

type itemVM struct {
	Index     int
	ID        string
	Values    map[string]string
	FileURL   string
	RemoveURL string
}

type fieldVM struct {
	Name     string
	Label    string
	Kind     string
	Value    string
	Checked  bool
	FileURL  string
	Required bool
	Help     string
	Error    string
	Options  []optionVM
	Columns  []fieldVM
	Rows     []itemVM
}

type tabVM struct {
	Name   string
	Label  string
	URL    string
	Active bool
	Fields []fieldVM
}

// fieldSet builds the tab panes of a form or detail page. Pages without
// tabs get a single unnamed pane.
type fieldSet struct {
	schema   formdraft.Schema
	draft    formdraft.Draft
	errs     map[string]string
	entityID string
	readOnly bool
}

func (h *Handler[T]) tabs(r *http.Request, fs fieldSet, active string) []tabVM {
	if len(h.Desc.Tabs.List) == 0 {
		return []tabVM{{Active: true, Fields: h.fields(r, fs, fs.schema.Fields)}}
	}
	out := make([]tabVM, 0, len(h.Desc.Tabs.List))
	for _, t := range h.Desc.Tabs.List {
		out = append(out, tabVM{
			Name:   t.Name,
			Label:  t.Label,
			URL:    tabsync.URL(r, t.Name),
			Active: t.Name == active,
			Fields: h.fields(r, fs, fs.schema.OnTab(t.Name)),
		})
	}
	return out
}

// activeTab returns the ?tab= value when registered, else the default.
func (h *Handler[T]) activeTab(r *http.Request) string {
	if name := r.URL.Query().Get(tabsync.Param); h.Desc.Tabs.Has(name) {
		return name
	}
	return h.Desc.Tabs.Default
}

func (h *Handler[T]) fields(r *http.Request, fs fieldSet, list []formdraft.Field) []fieldVM {
	out := make([]fieldVM, 0, len(list))
	for _, f := range list {
		if fs.readOnly && f.Kind == formdraft.Password {
			continue
		}
		out = append(out, h.field(r, fs, f))
	}
	return out
}

func (h *Handler[T]) field(r *http.Request, fs fieldSet, f formdraft.Field) fieldVM {
	v := fs.draft[f.Name]
	vm := fieldVM{
		Name:     f.Name,
		Label:    f.Label,
		Kind:     f.Kind.String(),
		Required: f.Required,
		Help:     f.Help,
		Error:    fs.errs[f.Name],
	}

	switch f.Kind {
	case formdraft.Bool:
		vm.Checked = v.Bool
		if fs.readOnly {
			vm.Value = "No"
			if v.Bool {
				vm.Value = "Yes"
			}
		}
	case formdraft.File:
		vm.FileURL = fs.draft.FileURL(f.Name)
	case formdraft.Date, formdraft.ExpiryDate:
		vm.Value = formdraft.InputDate(v.Text)
	case formdraft.DateTime:
		if fs.readOnly {
			vm.Value = v.Text
		} else {
			vm.Value = formdraft.InputDateTime(v.Text)
		}
	case formdraft.Password:
	case formdraft.Select:
		vm.Value = v.Text
		for _, c := range h.fieldChoices(r, f) {
			vm.Options = append(vm.Options, optionVM{Value: c.Value, Label: c.Label, Selected: c.Value == v.Text})
			if fs.readOnly && c.Value == v.Text {
				vm.Value = c.Label
			}
		}
	case formdraft.Collection:
		for _, col := range f.Columns {
			vm.Columns = append(vm.Columns, fieldVM{Name: col.Name, Label: col.Label, Kind: col.Kind.String(), Required: col.Required})
		}
		for i, it := range v.Items {
			row := itemVM{Index: i, ID: it.ID, Values: it.Values}
			if it.File != nil {
				row.FileURL = it.File.URL
			}
			if fs.entityID != "" && it.ID != "" && !fs.readOnly {
				row.RemoveURL = h.entityURL(fs.entityID) + "/" + f.Name + "/" + url.PathEscape(it.ID) + "/remove"
			}
			vm.Rows = append(vm.Rows, row)
		}
		if !fs.readOnly {
			// a blank row to add to; rows left blank are dropped on submit
			vm.Rows = append(vm.Rows, itemVM{Index: len(v.Items), Values: map[string]string{}})
		}
	default:
		vm.Value = v.Text
	}
	return vm
}

func (h *Handler[T]) fieldChoices(r *http.Request, f formdraft.Field) []formdraft.Choice {
	if h.Desc.Options != nil {
		if c, ok := h.Desc.Options(r, f); ok {
			return c
		}
	}
	return h.choices(r.Context(), f.Lookup, f.Choices)
}
