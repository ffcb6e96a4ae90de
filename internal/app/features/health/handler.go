// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DB is the part of *mongo.Client the check needs.
type DB interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Backend is the REST backend the console fronts.
type Backend interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB      DB
	Backend Backend
	Log     *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(db DB, backend Backend, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Backend: backend, Log: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "backend":"reachable" }
//
// A failed Mongo ping answers 503. An unreachable backend only degrades
// the status.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{Status: "ok", Database: "connected", Backend: "reachable"}

	if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Backend = ""
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Backend != nil {
		if err := h.Backend.Ping(ctx); err != nil {
			h.Log.Warn("health-check: backend unreachable", zap.Error(err))
			resp.Status = "degraded"
			resp.Backend = "unreachable"
			resp.Error = err.Error()
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
