// Package crud serves the list, detail, add/edit and action pages shared by
// every backend entity. A feature supplies a Descriptor for its type and
// mounts the Handler; anything entity specific hangs off the descriptor's
// hooks or extra routes the feature registers next to the standard ones.
package crud

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/policy/actionpolicy"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/formdraft"
	"github.com/dalemusser/clubdesk/internal/app/system/tabsync"
	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// Column is one list table column.
type Column[T any] struct {
	Label string
	Value func(T) string
	// Status renders the cell as a status badge.
	Status bool
}

// Filter is one list filter select.
type Filter struct {
	Name  string
	Label string
	// Lookup names the settings table the options come from.
	Lookup string
	// Choices is a fixed option list used when Lookup is empty.
	Choices []formdraft.Choice
}

// ToolbarLink is an extra link on the list page (an export, a wizard).
type ToolbarLink struct {
	Label string
	URL   string
}

// Descriptor describes one backend entity to the generic handlers.
type Descriptor[T any] struct {
	Kind     models.Kind
	Title    string // plural, "Members"
	Singular string // "Member"
	Resource string // backend collection path, "/users"

	ID      func(T) string
	Name    func(T) string
	Subject func(T) actionpolicy.Subject

	Columns []Column[T]
	Filters []Filter

	// Schema drives the add/edit form and the detail page.
	Schema formdraft.Schema
	// CreateSchema replaces Schema on the add form when set.
	CreateSchema *formdraft.Schema
	Tabs         tabsync.Tabs
	// ToDraft loads an entity into the edit form.
	ToDraft func(T) formdraft.Draft

	Toolbar []ToolbarLink

	// NoCreate drops the standard add routes (the feature provides its own).
	NoCreate bool

	// Options overrides the select options of a field. ok=false falls back
	// to the field's lookup table or fixed choices.
	Options func(r *http.Request, f formdraft.Field) (choices []formdraft.Choice, ok bool)

	// Authorize vets a submitted draft before anything is sent. A non-empty
	// message refuses the submission with the unauthorized response.
	Authorize func(r *http.Request, d formdraft.Draft) (message string)

	// PrepareForm adds entity specific fields to the primary payload.
	PrepareForm func(r *http.Request, d formdraft.Draft, form *apiclient.Form)

	// ViewExtra renders additional HTML below the detail fields.
	ViewExtra func(T) template.HTML

	// FormExtra is static HTML placed under the add/edit form fields.
	FormExtra template.HTML
}

// URL is the console path the entity is mounted at.
func (d Descriptor[T]) URL() string { return "/" + string(d.Kind) }

func (d Descriptor[T]) createSchema() formdraft.Schema {
	if d.CreateSchema != nil {
		return *d.CreateSchema
	}
	return d.Schema
}

func (d Descriptor[T]) filterNames() []string {
	out := make([]string, len(d.Filters))
	for i, f := range d.Filters {
		out[i] = f.Name
	}
	return out
}

func (d Descriptor[T]) usesLookups() bool {
	for _, f := range d.Filters {
		if f.Lookup != "" {
			return true
		}
	}
	return false
}

// fieldTable maps each tab, in tab order, to the fields shown on it.
func fieldTable(tabs tabsync.Tabs, schema formdraft.Schema) tabsync.FieldTable {
	table := make(tabsync.FieldTable, 0, len(tabs.List))
	for _, t := range tabs.List {
		row := tabsync.TabFields{Tab: t.Name}
		for _, f := range schema.OnTab(t.Name) {
			row.Fields = append(row.Fields, f.Name)
		}
		table = append(table, row)
	}
	return table
}
