// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "clubdesk-session"

	sessionIDKey = "sid"
)

// SessionStore is the server-side record store behind the session cookie.
type SessionStore interface {
	Create(ctx context.Context, sess *sessionstore.Session) error
	Get(ctx context.Context, id string) (*sessionstore.Session, error)
	Revoke(ctx context.Context, id, reason string) error
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in admin injected into r.Context().
type SessionUser struct {
	ID        string
	SessionID string
	AccountID string
	Name      string
	Email     string
	Role      models.Role
	Token     string
}

// Actor returns the user as a models.Actor.
func (u *SessionUser) Actor() models.Actor {
	return models.Actor{
		UserID:    u.ID,
		Role:      u.Role,
		AccountID: u.AccountID,
		Name:      u.Name,
		Email:     u.Email,
	}
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	return UserFromContext(r.Context())
}

// UserFromContext is CurrentUser for code that only holds a context.
func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// CurrentActor returns the signed-in admin as an Actor.
func CurrentActor(r *http.Request) (models.Actor, bool) {
	u, ok := CurrentUser(r)
	if !ok {
		return models.Actor{}, false
	}
	return u.Actor(), true
}

// TokenFromContext returns the backend bearer token of the signed-in admin,
// or "" when the request is anonymous.
func TokenFromContext(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.Token
	}
	return ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the session cookie and the server-side session record.
type SessionManager struct {
	cookies *sessions.CookieStore
	name    string
	maxAge  time.Duration
	records SessionStore
	logger  *zap.Logger
}

// NewSessionManager builds the cookie store. The `secure` flag controls
// whether cookies are marked Secure and which SameSite mode is used.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, records SessionStore, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{
		cookies: store,
		name:    name,
		maxAge:  maxAge,
		records: records,
		logger:  logger,
	}, nil
}

// MaxAge is the lifetime of a console session.
func (sm *SessionManager) MaxAge() time.Duration { return sm.maxAge }

// GetSession returns the cookie session. A cookie that no longer decodes
// (rotated key, tampering) yields a fresh session instead of an error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.cookies.Get(r, sm.name)
	if err != nil {
		var cerr securecookie.Error
		if errors.As(err, &cerr) && cerr.IsDecode() {
			sm.logger.Debug("discarding undecodable session cookie", zap.Error(err))
			sess.IsNew = true
			return sess, nil
		}
		return sess, err
	}
	return sess, nil
}

// LoadSessionUser injects the user into context if the cookie points at a
// live session record. Missing or revoked records leave the request anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sm.records == nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, _ := sm.GetSession(r)
		sid, _ := sess.Values[sessionIDKey].(string)
		if sid == "" {
			next.ServeHTTP(w, r)
			return
		}

		rec, err := sm.records.Get(r.Context(), sid)
		if err != nil {
			if !errors.Is(err, sessionstore.ErrNotFound) {
				sm.logger.Warn("session lookup failed", zap.String("sid", sid), zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withUser(r, &SessionUser{
			ID:        rec.UserID,
			SessionID: rec.ID,
			AccountID: rec.AccountID,
			Name:      rec.Name,
			Email:     rec.Email,
			Role:      models.ParseRole(rec.Role),
			Token:     rec.Token,
		}))
	})
}

// SignIn persists a session record and points the cookie at it.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, rec *sessionstore.Session) error {
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = time.Now().Add(sm.maxAge)
	}
	if err := sm.records.Create(r.Context(), rec); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	sess, _ := sm.GetSession(r)
	sess.Values[sessionIDKey] = rec.ID
	if rem := time.Until(rec.ExpiresAt); rem < sm.maxAge {
		sess.Options.MaxAge = int(rem.Seconds())
	}
	return sess.Save(r, w)
}

// SignOut revokes the session record and expires the cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request, reason string) error {
	sess, _ := sm.GetSession(r)
	if sid, _ := sess.Values[sessionIDKey].(string); sid != "" && sm.records != nil {
		if err := sm.records.Revoke(r.Context(), sid, reason); err != nil {
			sm.logger.Warn("session revoke failed", zap.String("sid", sid), zap.Error(err))
		}
	}
	delete(sess.Values, sessionIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// RevokeContext revokes the session of the user carried by ctx. It is the
// hook the backend client calls when the backend rejects the token, so every
// later request from that browser is anonymous no matter which view failed.
func (sm *SessionManager) RevokeContext(ctx context.Context) {
	u, ok := UserFromContext(ctx)
	if !ok || u.SessionID == "" || sm.records == nil {
		return
	}
	// The request context may already be cancelled.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := sm.records.Revoke(rctx, u.SessionID, sessionstore.EndUnauthorized); err != nil {
		sm.logger.Warn("session revoke after auth failure failed",
			zap.String("sid", u.SessionID), zap.Error(err))
		return
	}
	sm.logger.Info("session revoked after backend auth failure",
		zap.String("user_id", u.ID), zap.String("sid", u.SessionID))
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireRole ensures the signed-in user holds one of the allowed roles.
func (sm *SessionManager) RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			if _, has := set[u.Role]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects a user into the request context, bypassing the session.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// WithUserContext returns ctx carrying u.
func WithUserContext(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// helpers

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(r.URL.RequestURI())

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(WithUserContext(r.Context(), u))
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
