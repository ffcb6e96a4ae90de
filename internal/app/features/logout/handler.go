// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Client     *apiclient.Client
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, client *apiclient.Client, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Client:     client,
		AuditLog:   audit,
	}
}

// ServeLogout ends the console session. The backend is told the token is no
// longer used, but a failure there does not keep the admin signed in.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if h.Client != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		if err := h.Client.Logout(ctx); err != nil {
			h.Log.Info("backend logout failed", zap.Error(err))
		}
		cancel()
	}
	h.AuditLog.Logout(r.Context(), r)

	if err := h.SessionMgr.SignOut(w, r, sessionstore.EndLogout); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
