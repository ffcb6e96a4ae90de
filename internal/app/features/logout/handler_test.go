package logout_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/clubdesk/internal/app/features/logout"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"go.uber.org/zap"
)

type memSessions struct {
	mu      sync.Mutex
	revoked map[string]string
}

func (m *memSessions) Create(context.Context, *sessionstore.Session) error { return nil }
func (m *memSessions) Get(context.Context, string) (*sessionstore.Session, error) {
	return nil, sessionstore.ErrNotFound
}
func (m *memSessions) Revoke(_ context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = reason
	return nil
}

type memSink struct{ events []audit.Event }

func (m *memSink) Log(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}

type fixture struct {
	h        *logout.Handler
	sm       *auth.SessionManager
	recs     *memSessions
	sink     *memSink
	backendN int
}

func newFixture(t *testing.T, backendStatus int) *fixture {
	t.Helper()
	f := &fixture{recs: &memSessions{revoked: map[string]string{}}, sink: &memSink{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.backendN++
		w.WriteHeader(backendStatus)
		fmt.Fprint(w, `{"data":null}`)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", 24*time.Hour, false, f.recs, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	f.sm = sm
	f.h = logout.NewHandler(sm, client,
		auditlog.New(f.sink, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeDB}), zap.NewNop())
	return f
}

// signedIn returns a request carrying a cookie for session "sid-1".
func (f *fixture) signedIn(t *testing.T) *http.Request {
	t.Helper()
	login := httptest.NewRecorder()
	if err := f.sm.SignIn(login, httptest.NewRequest("POST", "/login", nil), &sessionstore.Session{ID: "sid-1"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	return auth.WithTestUser(req, &auth.SessionUser{ID: "12", SessionID: "sid-1", Role: models.RoleMainAdmin})
}

func TestServeLogout_RevokesAndRedirects(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	rec := httptest.NewRecorder()
	f.h.ServeLogout(rec, f.signedIn(t))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if f.recs.revoked["sid-1"] != sessionstore.EndLogout {
		t.Errorf("revoked = %v", f.recs.revoked)
	}
	if f.backendN != 1 {
		t.Errorf("backend logout calls = %d, want 1", f.backendN)
	}
	if len(f.sink.events) != 1 || f.sink.events[0].EventType != audit.EventLogout {
		t.Errorf("audit = %+v", f.sink.events)
	}
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	rec := httptest.NewRecorder()
	f.h.ServeLogout(rec, f.signedIn(t))

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("cookie MaxAge = %d, want < 0", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("session cookie not reset")
	}
}

func TestServeLogout_BackendFailureStillSignsOut(t *testing.T) {
	f := newFixture(t, http.StatusInternalServerError)
	rec := httptest.NewRecorder()
	f.h.ServeLogout(rec, f.signedIn(t))

	if rec.Header().Get("Location") != "/login" {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
	if _, ok := f.recs.revoked["sid-1"]; !ok {
		t.Error("session not revoked")
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	req := f.signedIn(t)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	f.h.ServeLogout(rec, req)

	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q, want /login", got)
	}
}
