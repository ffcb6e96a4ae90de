// Package tabsync keeps the active tab of a tabbed page in the URL's
// ?tab= parameter, so a link or reload opens the same tab on first paint.
package tabsync

import (
	"net/http"
	"net/url"
)

// Param is the query parameter holding the active tab.
const Param = "tab"

// Tab is one tab of a page.
type Tab struct {
	Name  string
	Label string
}

// Tabs is the registered tab set of a page.
type Tabs struct {
	List    []Tab
	Default string
}

// Has reports whether name is a registered tab.
func (t Tabs) Has(name string) bool {
	for _, tab := range t.List {
		if tab.Name == name {
			return true
		}
	}
	return false
}

// Resolve returns the active tab for r. When ?tab= is missing or not
// registered it writes a redirect to the same URL with the default tab and
// returns ok=false; the caller must stop handling the request.
func (t Tabs) Resolve(w http.ResponseWriter, r *http.Request) (active string, ok bool) {
	if name := r.URL.Query().Get(Param); t.Has(name) {
		return name, true
	}
	dest := URL(r, t.Default)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Replace-Url", dest)
		w.Header().Set("HX-Location", dest)
		w.WriteHeader(http.StatusOK)
		return "", false
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
	return "", false
}

// URL returns the request URL (path and query) with the tab set to name.
func URL(r *http.Request, name string) string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	q.Set(Param, name)
	u.RawQuery = q.Encode()
	return u.String()
}

// WithTab returns path with only the tab parameter set to name.
func WithTab(path, name string) string {
	u := url.URL{Path: path, RawQuery: url.Values{Param: {name}}.Encode()}
	return u.String()
}

// Link is a rendered tab header.
type Link struct {
	Name   string
	Label  string
	URL    string
	Active bool
}

// Links builds the tab headers for r with active highlighted.
func (t Tabs) Links(r *http.Request, active string) []Link {
	out := make([]Link, 0, len(t.List))
	for _, tab := range t.List {
		out = append(out, Link{
			Name:   tab.Name,
			Label:  tab.Label,
			URL:    URL(r, tab.Name),
			Active: tab.Name == active,
		})
	}
	return out
}

// FieldTable maps each tab, in a fixed order, to the fields it holds.
type FieldTable []TabFields

// TabFields is one row of a FieldTable.
type TabFields struct {
	Tab    string
	Fields []string
}

// FirstInvalid walks the table in order and returns the first tab that
// holds any invalid field.
func FirstInvalid(table FieldTable, invalid []string) (string, bool) {
	bad := make(map[string]bool, len(invalid))
	for _, f := range invalid {
		bad[f] = true
	}
	for _, row := range table {
		for _, f := range row.Fields {
			if bad[f] {
				return row.Tab, true
			}
		}
	}
	return "", false
}
