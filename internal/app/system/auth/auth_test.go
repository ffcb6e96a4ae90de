package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"go.uber.org/zap"
)

type fakeRecords struct {
	mu      sync.Mutex
	byID    map[string]*sessionstore.Session
	revoked map[string]string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{byID: map[string]*sessionstore.Session{}, revoked: map[string]string{}}
}

func (f *fakeRecords) Create(_ context.Context, s *sessionstore.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = "sid-" + s.UserID
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeRecords) Get(_ context.Context, id string) (*sessionstore.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, sessionstore.ErrNotFound
	}
	if _, gone := f.revoked[id]; gone {
		return nil, sessionstore.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRecords) Revoke(_ context.Context, id, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[id] = reason
	return nil
}

func newTestSessionManager(t *testing.T, recs auth.SessionStore) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		recs,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t, nil)
	req := httptest.NewRequest("GET", "/members?page=2", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("Location = %q, want /login?return=...", loc)
	}
}

func TestRequireSignedIn_NoUser_HTMX(t *testing.T) {
	sm := newTestSessionManager(t, nil)
	req := httptest.NewRequest("GET", "/members/table", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(got, "/login") {
		t.Errorf("HX-Redirect = %q", got)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t, nil)
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t, nil)
	h := sm.RequireRole(models.AdminRoles()...)(okHandler())

	tests := []struct {
		name string
		role models.Role
		want int
	}{
		{"main admin", models.RoleMainAdmin, http.StatusOK},
		{"sub admin", models.RoleSubAdmin, http.StatusOK},
		{"super admin", models.RoleSuperAdmin, http.StatusOK},
		{"member", models.RoleUser, http.StatusForbidden},
		{"vendor", models.RoleVendor, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{ID: "1", Role: tt.role})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSignIn_LoadSessionUser_SignOut(t *testing.T) {
	recs := newFakeRecords()
	sm := newTestSessionManager(t, recs)

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	err := sm.SignIn(rec, req, &sessionstore.Session{
		UserID: "7", Role: "SUB_ADMIN", Name: "Sub", Email: "sub@x.io", Token: "tok",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	// The cookie resolves to the user with the token attached.
	var got *auth.SessionUser
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	req2 := httptest.NewRequest("GET", "/members", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	sm.LoadSessionUser(capture).ServeHTTP(httptest.NewRecorder(), req2)
	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.Role != models.RoleSubAdmin || got.Token != "tok" || got.SessionID != "sid-7" {
		t.Errorf("user = %+v", got)
	}

	// After the backend rejects the token, the same cookie is anonymous.
	sm.RevokeContext(auth.WithUserContext(context.Background(), got))
	if recs.revoked["sid-7"] != sessionstore.EndUnauthorized {
		t.Errorf("revoke reason = %q", recs.revoked["sid-7"])
	}
	got = nil
	req3 := httptest.NewRequest("GET", "/members", nil)
	for _, c := range cookies {
		req3.AddCookie(c)
	}
	sm.LoadSessionUser(capture).ServeHTTP(httptest.NewRecorder(), req3)
	if got != nil {
		t.Errorf("expected anonymous request after revoke, got %+v", got)
	}
}

func TestGetSession_TamperedCookie(t *testing.T) {
	sm := newTestSessionManager(t, nil)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "garbage"})

	sess, err := sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !sess.IsNew {
		t.Error("expected a fresh session for an undecodable cookie")
	}
}

func TestTokenFromContext(t *testing.T) {
	if tok := auth.TokenFromContext(context.Background()); tok != "" {
		t.Errorf("anonymous token = %q", tok)
	}
	ctx := auth.WithUserContext(context.Background(), &auth.SessionUser{Token: "abc"})
	if tok := auth.TokenFromContext(ctx); tok != "abc" {
		t.Errorf("token = %q, want abc", tok)
	}
}
