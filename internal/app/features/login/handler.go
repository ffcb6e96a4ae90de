// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/clubdesk/internal/app/features/errors"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Client     *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

func NewHandler(client *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Client:     client,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, safeReturn(ret), http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Sign in", "/"),
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := r.FormValue("return")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginRateLimited, email, "rate limited")
			w.WriteHeader(http.StatusTooManyRequests)
			h.renderFormWithError(w, r, msg, email, ret)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Client.Login(ctx, email, password)
	if err != nil {
		msg := apiclient.UserMessage(err)
		if errors.Is(err, apiclient.ErrUnauthorized) {
			msg = "Invalid email or password."
		} else {
			h.Log.Warn("backend login failed", zap.Error(err))
		}
		h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginFailed, email, err.Error())
		h.renderFormWithError(w, r, msg, email, ret)
		return
	}

	role := models.ParseRole(res.User.Role)
	if !role.IsAdmin() {
		h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginRoleRefused, email, "role "+res.User.Role)
		h.renderFormWithError(w, r, "This account cannot use the admin console.", email, ret)
		return
	}

	rec := &sessionstore.Session{
		UserID:    res.User.UserID.String(),
		Role:      string(role),
		AccountID: res.User.AccountID,
		Name:      res.User.Name,
		Email:     res.User.Email,
		Token:     res.Token,
		ExpiresAt: tokenExpiry(res.Token, time.Now().Add(h.SessionMgr.MaxAge())),
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if rec.Email == "" {
		rec.Email = email
	}
	if err := h.SessionMgr.SignIn(w, r, rec); err != nil {
		h.ErrLog.LogServerError(w, r, "sign in failed", err, "Could not start your session. Please try again.", "/login")
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(r.Context(), r, rec.UserID, rec.Role, rec.Email)
	h.Log.Info("admin signed in", zap.String("user_id", rec.UserID), zap.String("role", rec.Role))

	http.Redirect(w, r, safeReturn(ret), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Sign in", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	})
}

// tokenExpiry reads the exp claim of a backend JWT. The signature is not
// checked here; the backend verifies every call. Tokens that are not JWTs,
// or carry no exp or one later than fallback, expire at fallback.
func tokenExpiry(token string, fallback time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || exp.Time.After(fallback) {
		return fallback
	}
	return exp.Time
}

func safeReturn(ret string) string {
	if ret == "" || strings.HasPrefix(ret, "/login") {
		return "/"
	}
	return urlutil.SafeReturn(ret, "", "/")
}
