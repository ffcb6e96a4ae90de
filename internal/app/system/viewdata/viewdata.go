// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// DefaultSiteName is shown when no site name is configured.
const DefaultSiteName = "ClubDesk"

// NavItem is one entry of the sidebar.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       models.Role
	RoleLabel  string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Nav         []NavItem

	// Toasts queued by the previous request
	Toasts []flash.Toast
}

var (
	siteName    = DefaultSiteName
	toastSource flash.SessionSource
)

var sidebar = []NavItem{
	{Label: "Admins", Href: "/admins"},
	{Label: "Members", Href: "/members"},
	{Label: "Clubs", Href: "/clubs"},
	{Label: "Events", Href: "/events"},
	{Label: "News", Href: "/news"},
	{Label: "Listings", Href: "/listings"},
	{Label: "Payments", Href: "/payments"},
	{Label: "Vendors", Href: "/vendors"},
	{Label: "Ads", Href: "/ads"},
	{Label: "Settings", Href: "/settings"},
	{Label: "Audit log", Href: "/audit"},
}

// Init sets the site name and the session the toasts are drained from.
// Call this once at startup from bootstrap.
func Init(name string, src flash.SessionSource) {
	if name != "" {
		siteName = name
	}
	toastSource = src
}

// NewBaseVM creates a fully populated BaseVM for a page. It drains queued
// toasts, so call it before writing the response body.
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    siteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.RoleLabel = u.Role.Label()
		vm.UserName = u.Name
		vm.Nav = navFor(r.URL.Path)
	}

	if toastSource != nil && w != nil {
		vm.Toasts = flash.Drain(w, r, toastSource)
	}
	return vm
}

func navFor(path string) []NavItem {
	out := make([]NavItem, len(sidebar))
	for i, n := range sidebar {
		n.Active = path == n.Href || (len(path) > len(n.Href) && path[:len(n.Href)+1] == n.Href+"/")
		out[i] = n
	}
	return out
}
