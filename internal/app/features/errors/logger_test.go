package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

type fakeSessions struct {
	store   *sessions.CookieStore
	reasons []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))}
}

func (f *fakeSessions) GetSession(r *http.Request) (*sessions.Session, error) {
	return f.store.Get(r, "test")
}

func (f *fakeSessions) SignOut(w http.ResponseWriter, r *http.Request, reason string) error {
	f.reasons = append(f.reasons, reason)
	return nil
}

func TestAPIError_AuthFailureRedirectsToLogin(t *testing.T) {
	tests := []struct {
		name     string
		htmx     bool
		wantCode int
	}{
		{"page", false, http.StatusSeeOther},
		{"htmx", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newFakeSessions()
			e := &ErrorLogger{Log: zap.NewNop(), Sessions: sess}

			r := httptest.NewRequest("POST", "/events/3/approve", nil)
			if tt.htmx {
				r.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			err := fmt.Errorf("approve: %w", &apiclient.APIError{Status: 401, Method: "POST", Path: "/events/3/approve"})
			e.APIError(rec, r, "approve event", err, "/events")

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.htmx {
				if got := rec.Header().Get("HX-Redirect"); got != "/login" {
					t.Errorf("HX-Redirect = %q", got)
				}
			} else if got := rec.Header().Get("Location"); got != "/login" {
				t.Errorf("Location = %q", got)
			}
			if len(sess.reasons) != 1 || sess.reasons[0] != "unauthorized" {
				t.Errorf("SignOut reasons = %v", sess.reasons)
			}
		})
	}
}

func TestAPIError_OtherFailureToastsAndRedirectsBack(t *testing.T) {
	sess := newFakeSessions()
	e := &ErrorLogger{Log: zap.NewNop(), Sessions: sess}

	r := httptest.NewRequest("POST", "/clubs/1/remove", nil)
	rec := httptest.NewRecorder()
	e.APIError(rec, r, "remove club", &apiclient.APIError{Status: 409, Message: "Club has members"}, "/clubs")

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/clubs" {
		t.Errorf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(sess.reasons) != 0 {
		t.Error("session must survive a non-auth failure")
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "test=") {
		t.Error("expected the toast to be queued in the session cookie")
	}
}

func TestNotice_HTMXTriggersToast(t *testing.T) {
	e := &ErrorLogger{Log: zap.NewNop()}
	r := httptest.NewRequest("GET", "/members/table", nil)
	r.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if e.Notice(rec, r, "list members", &apiclient.APIError{Status: 500, Message: "boom"}) {
		t.Fatal("Notice reported the response as written")
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), `"toast"`) {
		t.Errorf("HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestHTMXLogServerError(t *testing.T) {
	e := NewErrorLogger(zap.NewNop())
	r := httptest.NewRequest("GET", "/x", nil)
	rec := httptest.NewRecorder()
	e.HTMXLogServerError(rec, r, "x failed", fmt.Errorf("boom"), "Try again.")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
}
