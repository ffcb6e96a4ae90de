package clubs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// backend keeps one club and its security questions.
type backend struct {
	mu     sync.Mutex
	calls  []string
	qs     []models.SecurityQuestion
	nextID int64
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/admin")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+path)

	w.Header().Set("Content-Type", "application/json")
	const items = "/clubs/3/security_questions"
	switch {
	case r.Method == http.MethodGet && path == "/clubs/3":
		club := models.Club{ID: 3, Name: "Riders", Status: "ACTIVE", SecurityQuestions: b.qs}
		body, _ := json.Marshal(map[string]any{"data": club})
		w.Write(body)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, items+"/"):
		id := strings.TrimPrefix(path, items+"/")
		kept := b.qs[:0]
		for _, q := range b.qs {
			if fmt.Sprint(q.ID) != id {
				kept = append(kept, q)
			}
		}
		b.qs = kept
		fmt.Fprint(w, `{"data":null}`)
	case r.Method == http.MethodPost && path == items:
		_ = r.ParseMultipartForm(1 << 20)
		b.nextID++
		b.qs = append(b.qs, models.SecurityQuestion{ID: b.nextID, Question: r.FormValue("question"), Answer: r.FormValue("answer")})
		fmt.Fprintf(w, `{"data":{"id":%d}}`, b.nextID)
	default:
		fmt.Fprint(w, `{"data":null}`)
	}
}

// take returns the calls since the last take.
func (b *backend) take() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.calls
	b.calls = nil
	return out
}

func newRouter(t *testing.T, b *backend) http.Handler {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	h := NewHandler(crud.Deps{
		Client: client,
		ErrLog: uierrors.NewErrorLogger(zap.NewNop()),
		Log:    zap.NewNop(),
	})
	r := chi.NewRouter()
	r.Route("/clubs", h.Register)
	return r
}

func post(router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "1", SessionID: "s1", Role: models.RoleMainAdmin})
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		router.ServeHTTP(rec, req)
	}()
	return rec
}

func has(calls []string, want string) bool {
	for _, c := range calls {
		if c == want {
			return true
		}
	}
	return false
}

func count(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestEdit_SecurityQuestionsSync(t *testing.T) {
	b := &backend{
		qs: []models.SecurityQuestion{
			{ID: 10, Question: "Bike?", Answer: "Yes"},
			{ID: 11, Question: "Helmet?", Answer: "Red"},
		},
		nextID: 11,
	}
	router := newRouter(t, b)

	// Removing a row in the editor deletes it right away.
	rec := post(router, "/clubs/3/security_questions/11/remove", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/clubs/3/edit" {
		t.Fatalf("remove: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if calls := b.take(); !has(calls, "DELETE /clubs/3/security_questions/11") {
		t.Fatalf("remove calls = %v", calls)
	}

	form := url.Values{
		"name":                            {"Riders"},
		"security_questions[0][id]":       {"10"},
		"security_questions[0][question]": {"Bike?"},
		"security_questions[0][answer]":   {"Yes"},
		"security_questions[1][question]": {"Route?"},
		"security_questions[1][answer]":   {"Coast"},
	}
	rec = post(router, "/clubs/3/edit", form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/clubs" {
		t.Fatalf("save: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	calls := b.take()
	if len(calls) < 2 || calls[0] != "GET /clubs/3" || calls[1] != "PUT /clubs/3" {
		t.Fatalf("save must refetch then update the club first: %v", calls)
	}
	for _, want := range []string{"PUT /clubs/3/security_questions/10", "POST /clubs/3/security_questions"} {
		if !has(calls, want) {
			t.Errorf("save calls = %v, missing %s", calls, want)
		}
	}
	if n := count(calls, "DELETE"); n != 0 {
		t.Errorf("save sent %d deletes: %v", n, calls)
	}

	// Saving the same rows again re-sends the edited row and creates nothing.
	rec = post(router, "/clubs/3/edit", url.Values{
		"name":                            {"Riders"},
		"security_questions[0][id]":       {"10"},
		"security_questions[0][question]": {"Bike?"},
		"security_questions[0][answer]":   {"Yes"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("second save: status %d", rec.Code)
	}
	calls = b.take()
	if !has(calls, "PUT /clubs/3/security_questions/10") {
		t.Errorf("second save calls = %v, want row 10 re-sent", calls)
	}
	if n := count(calls, "POST /clubs/3/security_questions"); n != 0 {
		t.Errorf("second save created %d rows: %v", n, calls)
	}
}
