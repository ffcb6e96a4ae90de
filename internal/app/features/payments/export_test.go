package payments

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/gorilla/sessions"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type cookieSource struct{ store *sessions.CookieStore }

func (c cookieSource) GetSession(r *http.Request) (*sessions.Session, error) {
	return c.store.Get(r, "test")
}

// pagedBackend serves total payments in pages; failPage > 0 answers that
// page with a 500.
func pagedBackend(t *testing.T, total, failPage int, calls *atomic.Int32) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		if page == failPage {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"boom"}`)
			return
		}
		start := (page - 1) * size
		var items []string
		for i := start; i < total && i < start+size; i++ {
			items = append(items, fmt.Sprintf(`{"id":%d,"reference":"P-%d","status":"APPROVED"}`, i+1, i+1))
		}
		fmt.Fprintf(w, `{"data":[%s],"total":%d}`, strings.Join(items, ","), total)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestServeExport_AllPagesWithFilters(t *testing.T) {
	const total = 130
	var sawFilter atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "APPROVED" {
			sawFilter.Store(true)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		start := (page - 1) * size
		var items []string
		for i := start; i < total && i < start+size; i++ {
			items = append(items, fmt.Sprintf(`{"id":%d,"reference":"P-%d","status":"APPROVED","is_paid":true}`, i+1, i+1))
		}
		fmt.Fprintf(w, `{"data":[%s],"total":%d}`, strings.Join(items, ","), total)
	}))
	defer srv.Close()

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(crud.Deps{Client: client, Log: zap.NewNop()})

	rec := httptest.NewRecorder()
	h.ServeExport(rec, httptest.NewRequest("GET", "/payments/export?status=APPROVED&keyword=P", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxType {
		t.Errorf("Content-Type = %q", ct)
	}
	if !sawFilter.Load() {
		t.Error("filter not forwarded to the backend")
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	rows, err := f.GetRows("Payments")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != total+1 {
		t.Errorf("rows = %d, want %d", len(rows), total+1)
	}
	if rows[1][1] != "P-1" || rows[total][1] != fmt.Sprintf("P-%d", total) {
		t.Errorf("rows out of order: %v ... %v", rows[1], rows[total])
	}
}

func TestServeExport_TruncatedQueuesWarning(t *testing.T) {
	const total = maxExportPages*exportPageSize + 30
	var calls atomic.Int32
	src := cookieSource{store: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))}
	h := NewHandler(crud.Deps{Client: pagedBackend(t, total, 0, &calls), Flash: src, Log: zap.NewNop()})

	rec := httptest.NewRecorder()
	h.ServeExport(rec, httptest.NewRequest("GET", "/payments/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := calls.Load(); n != maxExportPages {
		t.Errorf("backend pages fetched = %d, want %d", n, maxExportPages)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	rows, err := f.GetRows("Payments")
	if err != nil {
		t.Fatal(err)
	}
	if want := maxExportPages*exportPageSize + 1; len(rows) != want {
		t.Errorf("rows = %d, want %d", len(rows), want)
	}

	next := httptest.NewRequest("GET", "/payments", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	toasts := flash.Drain(httptest.NewRecorder(), next, src)
	if len(toasts) != 1 || toasts[0].Level != flash.Warning || !strings.Contains(toasts[0].Message, fmt.Sprint(total)) {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestServeExport_FailedPageAborts(t *testing.T) {
	var calls atomic.Int32
	h := NewHandler(crud.Deps{
		Client: pagedBackend(t, 450, 3, &calls),
		ErrLog: uierrors.NewErrorLogger(zap.NewNop()),
		Log:    zap.NewNop(),
	})

	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h.ServeExport(rec, httptest.NewRequest("GET", "/payments/export", nil))
	}()
	if ct := rec.Header().Get("Content-Type"); ct == xlsxType {
		t.Error("workbook sent although a page failed")
	}
}
