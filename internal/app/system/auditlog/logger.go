// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	Auth  string
	Admin string
}

// Sink persists events.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to MongoDB and the structured log.
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID), zap.String("actor_role", event.ActorRole))
	}
	if event.Entity != "" {
		fields = append(fields, zap.String("entity", event.Entity), zap.String("entity_id", event.EntityID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := ModeAll
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, category, eventType string) audit.Event {
	e := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if u, ok := auth.CurrentUser(r); ok {
		e.ActorID = u.ID
		e.ActorRole = string(u.Role)
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, role, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.ActorID, e.ActorRole = userID, role
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed logs a refused sign-in. eventType distinguishes the reason.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, email, reason string) {
	e := fromRequest(r, audit.CategoryAuth, eventType)
	e.Success = false
	e.FailureReason = reason
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// Logout logs a user-initiated sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, fromRequest(r, audit.CategoryAuth, audit.EventLogout))
}

// SessionRevoked logs a session ended because the backend refused its token.
func (l *Logger) SessionRevoked(ctx context.Context, r *http.Request, path string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventSessionRevoked)
	e.Success = false
	e.FailureReason = "backend rejected token"
	e.Details = map[string]string{"path": path}
	l.Log(ctx, e)
}

// --- Admin Events ---

// EntityAction logs a mutation of a backend entity. A non-nil err marks it failed.
func (l *Logger) EntityAction(ctx context.Context, r *http.Request, eventType, entity, id string, err error, details map[string]string) {
	e := fromRequest(r, audit.CategoryAdmin, eventType)
	e.Entity, e.EntityID = entity, id
	e.Details = details
	if err != nil {
		e.Success = false
		e.FailureReason = err.Error()
	}
	l.Log(ctx, e)
}

// ActionRefused logs a mutation the console refused before calling the backend.
func (l *Logger) ActionRefused(ctx context.Context, r *http.Request, entity, id, action string) {
	e := fromRequest(r, audit.CategoryAdmin, audit.EventActionRefused)
	e.Entity, e.EntityID = entity, id
	e.Success = false
	e.FailureReason = "not permitted"
	e.Details = map[string]string{"action": action}
	l.Log(ctx, e)
}

// LookupsReloaded logs a manual reload of cached lookup tables.
func (l *Logger) LookupsReloaded(ctx context.Context, r *http.Request, table string, err error) {
	e := fromRequest(r, audit.CategoryAdmin, audit.EventLookupsReloaded)
	e.Entity = "lookups"
	if table == "" {
		table = "all"
	}
	e.EntityID = table
	if err != nil {
		e.Success = false
		e.FailureReason = err.Error()
	}
	l.Log(ctx, e)
}
