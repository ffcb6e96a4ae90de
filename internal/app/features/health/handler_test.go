package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubdesk/internal/app/features/health"
	"github.com/dalemusser/clubdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type stubDB struct{ err error }

func (s stubDB) Ping(context.Context, *readpref.ReadPref) error { return s.err }

type stubBackend struct{ err error }

func (s stubBackend) Ping(context.Context) error { return s.err }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
}

func serve(t *testing.T, h *health.Handler) (int, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec.Code, resp
}

func TestServe(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name       string
		db, api    error
		wantCode   int
		wantStatus string
		wantAPI    string
	}{
		{"all up", nil, nil, http.StatusOK, "ok", "reachable"},
		{"backend down", nil, down, http.StatusOK, "degraded", "unreachable"},
		{"database down", down, nil, http.StatusServiceUnavailable, "error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(stubDB{tt.db}, stubBackend{tt.api}, zap.NewNop())
			code, resp := serve(t, h)
			if code != tt.wantCode || resp.Status != tt.wantStatus || resp.Backend != tt.wantAPI {
				t.Errorf("got %d %+v", code, resp)
			}
		})
	}
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), nil, zap.NewNop())

	code, resp := serve(t, h)
	if code != http.StatusOK || resp.Database != "connected" {
		t.Errorf("got %d %+v", code, resp)
	}
}
