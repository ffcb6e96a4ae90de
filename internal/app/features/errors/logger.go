// internal/app/features/errors/logger.go
package errors

import (
	"errors"
	"net/http"

	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"go.uber.org/zap"
)

// SessionEnder is the part of the session manager the error logger needs to
// end a session the backend no longer accepts.
type SessionEnder interface {
	flash.SessionSource
	SignOut(w http.ResponseWriter, r *http.Request, reason string) error
}

// ErrorLogger logs handler failures and turns them into a response the
// admin can act on: an error page, a toast, or a forced return to /login.
type ErrorLogger struct {
	Log      *zap.Logger
	Sessions SessionEnder
	Audit    *auditlog.Logger
}

// NewErrorLogger creates an ErrorLogger. Sessions and Audit are optional
// and set by bootstrap once the session manager exists.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// SessionExpiredMessage is flashed on the login page after the backend
// rejected the console's token.
const SessionExpiredMessage = "Your session has ended. Please sign in again."

// LogServerError logs err and renders the server error page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if e.authFailure(w, r, msg, err) {
		return
	}
	e.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders the bad request page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, zap.Error(err), zap.String("path", r.URL.Path))
	RenderBadRequest(w, r, userMsg, backURL)
}

// HTMXLogServerError logs err and answers an HTMX request with an error
// toast and no swap.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	if e.authFailure(w, r, msg, err) {
		return
	}
	e.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	flash.Trigger(w, flash.Error, userMsg)
	w.WriteHeader(http.StatusNoContent)
}

// APIError handles a failed backend mutation. Auth failures end the session
// and send the admin to /login. Anything else becomes an error toast and a
// redirect to backURL (HTMX requests get the toast without a redirect).
func (e *ErrorLogger) APIError(w http.ResponseWriter, r *http.Request, msg string, err error, backURL string) {
	if e.authFailure(w, r, msg, err) {
		return
	}
	e.logAPI(msg, err, r)
	userMsg := apiclient.UserMessage(err)
	if r.Header.Get("HX-Request") == "true" {
		flash.Trigger(w, flash.Error, userMsg)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	e.flash(w, r, flash.Error, userMsg)
	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// Notice reports a failed backend read without leaving the page: the error
// is logged and queued as a toast for the page being rendered. It returns
// true when it already wrote the response (auth failure) and the caller
// must stop.
func (e *ErrorLogger) Notice(w http.ResponseWriter, r *http.Request, msg string, err error) bool {
	if e.authFailure(w, r, msg, err) {
		return true
	}
	e.logAPI(msg, err, r)
	if r.Header.Get("HX-Request") == "true" {
		flash.Trigger(w, flash.Error, apiclient.UserMessage(err))
		return false
	}
	e.flash(w, r, flash.Error, apiclient.UserMessage(err))
	return false
}

func (e *ErrorLogger) logAPI(msg string, err error, r *http.Request) {
	fields := []zap.Field{zap.Error(err), zap.String("path", r.URL.Path)}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.Status), zap.String("backend_path", apiErr.Path))
	}
	e.Log.Warn(msg, fields...)
}

func (e *ErrorLogger) flash(w http.ResponseWriter, r *http.Request, level flash.Level, msg string) {
	if e.Sessions == nil {
		return
	}
	if err := flash.Add(w, r, e.Sessions, level, msg); err != nil {
		e.Log.Warn("queue toast failed", zap.Error(err))
	}
}

// authFailure ends the session and redirects to /login when err is a
// backend auth rejection. The API client has already revoked the session
// record; this clears the cookie of the browser that made the request.
func (e *ErrorLogger) authFailure(w http.ResponseWriter, r *http.Request, msg string, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	e.Log.Info(msg+": backend rejected session token", zap.String("path", r.URL.Path))
	e.Audit.SessionRevoked(r.Context(), r, r.URL.Path)

	if e.Sessions != nil {
		if serr := e.Sessions.SignOut(w, r, sessionstore.EndUnauthorized); serr != nil {
			e.Log.Warn("clear session cookie failed", zap.Error(serr))
		}
		e.flash(w, r, flash.Error, SessionExpiredMessage)
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return true
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}
