package settings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/lookups"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"go.uber.org/zap"
)

type countingLoader struct {
	mu    sync.Mutex
	loads map[string]int
	fail  map[string]bool
}

func (c *countingLoader) load(_ context.Context, table string) ([]models.LookupOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads[table]++
	if c.fail[table] {
		return nil, errors.New("backend down")
	}
	return []models.LookupOption{{Value: "a", Label: "A"}}, nil
}

type memSink struct{ events []audit.Event }

func (m *memSink) Log(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}

func newHandler(l *countingLoader, sink *memSink) *Handler {
	p := lookups.New(l.load, []string{"tiers", "vendor_categories"}, time.Hour, zap.NewNop())
	return NewHandler(p, uierrors.NewErrorLogger(zap.NewNop()),
		auditlog.New(sink, zap.NewNop(), auditlog.Config{Admin: auditlog.ModeDB}), nil, zap.NewNop())
}

func reload(h *Handler, table string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/settings/reload", strings.NewReader("table="+table))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		h.HandleReload(rec, req)
	}()
	return rec
}

func TestHandleReload_OneTable(t *testing.T) {
	l := &countingLoader{loads: map[string]int{}}
	sink := &memSink{}
	h := newHandler(l, sink)
	if err := h.Lookups.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}

	rec := reload(h, "tiers")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if l.loads["tiers"] != 2 || l.loads["vendor_categories"] != 1 {
		t.Errorf("loads = %v", l.loads)
	}
	if len(sink.events) != 1 || sink.events[0].EventType != audit.EventLookupsReloaded || sink.events[0].EntityID != "tiers" {
		t.Errorf("audit = %+v", sink.events)
	}
}

func TestHandleReload_AllRecordsFailure(t *testing.T) {
	l := &countingLoader{loads: map[string]int{}, fail: map[string]bool{"vendor_categories": true}}
	sink := &memSink{}
	h := newHandler(l, sink)

	reload(h, "")
	if l.loads["tiers"] != 1 || l.loads["vendor_categories"] != 1 {
		t.Errorf("loads = %v", l.loads)
	}
	if len(sink.events) != 1 || sink.events[0].Success || sink.events[0].EntityID != "all" {
		t.Errorf("audit = %+v", sink.events)
	}
}

func TestHandleReload_UnknownTable(t *testing.T) {
	l := &countingLoader{loads: map[string]int{}}
	sink := &memSink{}
	h := newHandler(l, sink)

	reload(h, "nope")
	if len(l.loads) != 0 || len(sink.events) != 0 {
		t.Errorf("unknown table reloaded: loads=%v events=%d", l.loads, len(sink.events))
	}
}
