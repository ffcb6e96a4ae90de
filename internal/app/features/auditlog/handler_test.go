package auditlog

import (
	"context"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"go.uber.org/zap"
)

type fakeEvents struct {
	got   audit.QueryFilter
	total int64
	err   error
}

func (f *fakeEvents) Query(_ context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	f.got = filter
	if f.err != nil {
		return nil, f.err
	}
	return []audit.Event{{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, ActorID: "7", Success: true}}, nil
}

func (f *fakeEvents) CountByFilter(context.Context, audit.QueryFilter) (int64, error) {
	return f.total, f.err
}

func serve(h *Handler, target string) {
	req := httptest.NewRequest("GET", target, nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "1", Role: models.RoleMainAdmin})
	rec := httptest.NewRecorder()
	defer func() { recover() }()
	h.ServeList(rec, req)
}

func TestServeList_BuildsFilter(t *testing.T) {
	ev := &fakeEvents{total: 120}
	h := NewHandler(ev, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	serve(h, "/audit?category=auth&event_type=logout&entity=members&start_date=2026-01-02&end_date=2026-01-03&page=3")

	if ev.got.Category != "auth" || ev.got.EventType != "logout" || ev.got.Entity != "members" {
		t.Errorf("filter = %+v", ev.got)
	}
	if ev.got.Limit != pageSize || ev.got.Offset != 2*pageSize {
		t.Errorf("limit/offset = %d/%d, want %d/%d", ev.got.Limit, ev.got.Offset, pageSize, 2*pageSize)
	}
	if ev.got.StartTime == nil || ev.got.StartTime.Format(dateLayout) != "2026-01-02" {
		t.Errorf("StartTime = %v", ev.got.StartTime)
	}
	if ev.got.EndTime == nil || ev.got.EndTime.Hour() != 23 {
		t.Errorf("EndTime = %v, want end of day", ev.got.EndTime)
	}
}

func TestServeList_IgnoresBadInput(t *testing.T) {
	ev := &fakeEvents{}
	h := NewHandler(ev, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	serve(h, "/audit?page=-4&start_date=yesterday")

	if ev.got.Offset != 0 {
		t.Errorf("Offset = %d, want 0", ev.got.Offset)
	}
	if ev.got.StartTime != nil {
		t.Errorf("StartTime = %v, want nil", ev.got.StartTime)
	}
}

func TestServeList_StoreError(t *testing.T) {
	ev := &fakeEvents{err: errors.New("mongo down")}
	h := NewHandler(ev, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	// Must not panic outside template rendering.
	serve(h, "/audit")
}

func TestEventTypesForCategory(t *testing.T) {
	tests := []struct {
		category string
		want     int
	}{
		{audit.CategoryAuth, len(authEvents)},
		{audit.CategoryAdmin, len(adminEvents)},
		{"", len(authEvents) + len(adminEvents)},
		{"bogus", 0},
	}
	for _, tt := range tests {
		if got := len(eventTypesForCategory(tt.category)); got != tt.want {
			t.Errorf("eventTypesForCategory(%q) = %d types, want %d", tt.category, got, tt.want)
		}
	}
}

func TestPageURL(t *testing.T) {
	q := url.Values{"category": {"auth"}, "page": {"2"}}
	got := pageURL(q, 3)
	if got != "/audit?category=auth&page=3" {
		t.Errorf("pageURL = %q", got)
	}
	if q.Get("page") != "2" {
		t.Error("pageURL mutated the caller's values")
	}
}
