// Package flash carries toast notifications across a redirect using the
// session cookie's flash slot, and to HTMX requests through HX-Trigger.
package flash

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// Level is the toast style.
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Toast is one notification.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// SessionSource returns the cookie session of a request.
type SessionSource interface {
	GetSession(r *http.Request) (*sessions.Session, error)
}

// Add queues a toast for the next rendered page.
func Add(w http.ResponseWriter, r *http.Request, src SessionSource, level Level, msg string) error {
	sess, err := src.GetSession(r)
	if err != nil {
		return err
	}
	sess.AddFlash(string(level) + "|" + msg)
	return sess.Save(r, w)
}

// Drain removes and returns the queued toasts. It must run before the
// response body is written.
func Drain(w http.ResponseWriter, r *http.Request, src SessionSource) []Toast {
	sess, err := src.GetSession(r)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	out := make([]Toast, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, decode(s))
	}
	return out
}

// Trigger sends a toast to an HTMX request as an HX-Trigger "toast" event.
// Extra event names are fired alongside it (e.g. "list-refresh").
func Trigger(w http.ResponseWriter, level Level, msg string, events ...string) {
	payload := map[string]any{"toast": Toast{Level: level, Message: msg}}
	for _, e := range events {
		payload[e] = true
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

func decode(s string) Toast {
	level, msg, ok := strings.Cut(s, "|")
	if !ok {
		return Toast{Level: Info, Message: s}
	}
	switch Level(level) {
	case Success, Info, Warning, Error:
		return Toast{Level: Level(level), Message: msg}
	}
	return Toast{Level: Info, Message: s}
}
