package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Multiple calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AdminUser returns a signed-in session user with the given admin role.
func AdminUser(role models.Role) *auth.SessionUser {
	return &auth.SessionUser{
		ID:        "1001",
		SessionID: "test-session",
		Name:      "Test " + role.Label(),
		Email:     strings.ToLower(string(role)) + "@test.com",
		Role:      role,
		Token:     "test-token",
	}
}

// WithAdmin adds an admin with the given role to the request context.
func WithAdmin(r *http.Request, role models.Role) *http.Request {
	return auth.WithTestUser(r, AdminUser(role))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewFormRequest creates a POST request carrying url-encoded form values.
func NewFormRequest(target, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// HTMX marks the request as issued by HTMX.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
