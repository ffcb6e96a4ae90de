package vendors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/store/drafts"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type backend struct {
	mu    sync.Mutex
	calls []string
	forms []url.Values
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/admin")
	_ = r.ParseMultipartForm(1 << 20)
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+path)
	b.forms = append(b.forms, r.PostForm)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case path == "/vendors/check-email":
		switch r.URL.Query().Get("email") {
		case "vendor@club.test":
			fmt.Fprint(w, `{"data":{"exists":true,"is_vendor":true,"user_id":3}}`)
		case "member@club.test":
			fmt.Fprint(w, `{"data":{"exists":true,"is_vendor":false,"user_id":9,"name":"Mia"}}`)
		default:
			fmt.Fprint(w, `{"data":{"exists":false,"is_vendor":false}}`)
		}
	case r.Method == http.MethodPost && path == "/vendors/convert":
		fmt.Fprint(w, `{"data":{"id":70}}`)
	case r.Method == http.MethodPost && path == "/vendors":
		fmt.Fprint(w, `{"data":{"id":80}}`)
	default:
		fmt.Fprint(w, `{"data":[]}`)
	}
}

func (b *backend) last(call string) (url.Values, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i] == call {
			return b.forms[i], true
		}
	}
	return nil, false
}

type memDrafts struct {
	mu sync.Mutex
	m  map[string]drafts.Draft
}

func (s *memDrafts) Save(_ context.Context, d drafts.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[d.SessionID+"/"+d.Name] = d
	return nil
}

func (s *memDrafts) Load(_ context.Context, sid, name string) (drafts.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.m[sid+"/"+name]
	if !ok {
		return drafts.Draft{}, drafts.ErrNotFound
	}
	return d, nil
}

func (s *memDrafts) Delete(_ context.Context, sid, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sid+"/"+name)
	return nil
}

type memSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (m *memSink) Log(_ context.Context, e audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

type fixture struct {
	b      *backend
	store  *memDrafts
	sink   *memSink
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	f := &fixture{b: b, store: &memDrafts{m: map[string]drafts.Draft{}}, sink: &memSink{}}
	h := NewHandler(crud.Deps{
		Client: client,
		ErrLog: uierrors.NewErrorLogger(zap.NewNop()),
		Audit:  auditlog.New(f.sink, zap.NewNop(), auditlog.Config{Admin: auditlog.ModeDB}),
		Log:    zap.NewNop(),
	}, f.store)

	r := chi.NewRouter()
	r.Route("/vendors", func(r chi.Router) {
		r.Get("/new", h.ServeWizard)
		r.Post("/new", h.HandleWizard)
		h.Register(r)
	})
	f.router = r
	return f
}

func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "1", SessionID: "s1", Role: models.RoleMainAdmin})
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		f.router.ServeHTTP(rec, req)
	}()
	return rec
}

func (f *fixture) post(t *testing.T, form url.Values) {
	t.Helper()
	rec := f.do("POST", "/vendors/new", form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/vendors/new" {
		t.Fatalf("op %s: status %d location %q", form.Get("op"), rec.Code, rec.Header().Get("Location"))
	}
}

func (f *fixture) state(t *testing.T) drafts.Draft {
	t.Helper()
	d, err := f.store.Load(context.Background(), "s1", draftName)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	return d
}

func TestWizard_ConvertMember(t *testing.T) {
	f := newFixture(t)

	f.post(t, url.Values{"op": {"check"}, "email": {"member@club.test"}})
	d := f.state(t)
	if d.Step != "email" || d.Branch != "convert" || d.Values[keyUserID] != "9" {
		t.Fatalf("after check: %+v", d)
	}

	f.post(t, url.Values{"op": {"confirm"}})
	f.post(t, url.Values{"op": {"next"}, "contact_name": {"Mia"}, "category": {"food"}})
	if got := f.state(t).Step; got != "company" {
		t.Fatalf("step = %s, want company", got)
	}

	rec := f.do("POST", "/vendors/new", url.Values{"op": {"submit"}, "company_name": {"Mia Foods"}, "company_reg_no": {"R-1"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/vendors" {
		t.Fatalf("submit: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	form, ok := f.b.last("POST /vendors/convert")
	if !ok {
		t.Fatal("convert not called")
	}
	if form.Get("user_id") != "9" || form.Get("company_name") != "Mia Foods" || form.Get("password") != "" {
		t.Errorf("convert form = %v", form)
	}
	if _, ok := f.b.last("POST /vendors"); ok {
		t.Error("register called on convert branch")
	}
	if _, err := f.store.Load(context.Background(), "s1", draftName); err != drafts.ErrNotFound {
		t.Errorf("draft not cleared: %v", err)
	}
	if n := len(f.sink.events); n != 1 || f.sink.events[0].EventType != audit.EventVendorConverted {
		t.Errorf("audit events = %+v", f.sink.events)
	}
}

func TestWizard_RegisterReturnsToCallback(t *testing.T) {
	f := newFixture(t)

	f.do("GET", "/vendors/new?restart=1&email=new%40club.test&callback_url=%2Fmembers%2F3%2Fedit", nil)
	d := f.state(t)
	if d.Values["email"] != "new@club.test" || d.Values[keyCallback] != "/members/3/edit" {
		t.Fatalf("seeded draft = %+v", d)
	}

	f.post(t, url.Values{"op": {"check"}, "email": {"new@club.test"}})
	if d := f.state(t); d.Step != "member" || d.Branch != "register" {
		t.Fatalf("after check: %+v", d)
	}
	f.post(t, url.Values{"op": {"next"}, "name": {"Ned"}, "phone": {"555"}, "password": {"pw"}})
	f.post(t, url.Values{"op": {"next"}, "contact_name": {"Ned"}, "category": {"tools"}})

	rec := f.do("POST", "/vendors/new", url.Values{"op": {"submit"}, "company_name": {"Ned Co"}, "company_reg_no": {"R-2"}})
	if got := rec.Header().Get("Location"); got != "/members/3/edit" {
		t.Errorf("Location = %q, want /members/3/edit", got)
	}
	form, ok := f.b.last("POST /vendors")
	if !ok {
		t.Fatal("register not called")
	}
	if form.Get("password") != "pw" || form.Get("email") != "new@club.test" || form.Get("user_id") != "" {
		t.Errorf("register form = %v", form)
	}
}

func TestWizard_ExistingVendorStaysOnEmail(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/vendors/new", url.Values{"op": {"check"}, "email": {"vendor@club.test"}})
	if rec.Code == http.StatusSeeOther {
		t.Fatal("wizard advanced for an existing vendor")
	}
	if _, ok := f.b.last("POST /vendors"); ok {
		t.Error("vendor created")
	}
}

func TestWizard_InvalidStepDoesNotAdvance(t *testing.T) {
	f := newFixture(t)
	f.post(t, url.Values{"op": {"check"}, "email": {"new@club.test"}})

	rec := f.do("POST", "/vendors/new", url.Values{"op": {"next"}, "name": {"Ned"}})
	if rec.Code == http.StatusSeeOther {
		t.Fatal("advanced with missing fields")
	}
	if got := f.state(t).Step; got != "member" {
		t.Errorf("step = %s, want member", got)
	}
}

func TestWizard_SubmitBeforeFinalStepIgnored(t *testing.T) {
	f := newFixture(t)
	f.post(t, url.Values{"op": {"submit"}, "company_name": {"X"}, "company_reg_no": {"Y"}})
	if _, ok := f.b.last("POST /vendors"); ok {
		t.Error("submitted from the email step")
	}
}

func TestWizard_BackValidatesCurrentStep(t *testing.T) {
	f := newFixture(t)
	f.post(t, url.Values{"op": {"check"}, "email": {"new@club.test"}})

	rec := f.do("POST", "/vendors/new", url.Values{"op": {"back"}})
	if rec.Code == http.StatusSeeOther {
		t.Fatal("went back with missing fields")
	}
	if got := f.state(t).Step; got != "member" {
		t.Errorf("step = %s, want member", got)
	}

	f.post(t, url.Values{"op": {"back"}, "name": {"Ned"}, "phone": {"555"}, "password": {"pw"}})
	if got := f.state(t).Step; got != "email" {
		t.Errorf("step after valid back = %s, want email", got)
	}
}
