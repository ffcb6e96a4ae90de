// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/members").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret != "" && allowed(ret, opts) {
		return ret
	}
	return opts.Fallback
}

// EntityBackURL returns the options for an entity section such as "/clubs".
func EntityBackURL(base string) BackURLOptions {
	return BackURLOptions{
		AllowedPrefix:    base,
		ExcludedSubpaths: []string{"/edit", "/new", "/remove", "/confirm"},
		Fallback:         base,
	}
}

// CallbackURL returns the local callback_url carried by a form that was
// opened from another page (e.g. vendor registration started from a member
// edit), or fallback when it is absent or not a safe local path.
func CallbackURL(r *http.Request, fallback string) string {
	v := strings.TrimSpace(r.FormValue("callback_url"))
	if v == "" {
		v = query.Get(r, "callback_url")
	}
	if v == "" {
		return fallback
	}
	return urlutil.SafeReturn(v, "", fallback)
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return false
		}
	}
	return true
}
