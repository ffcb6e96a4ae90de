package home

import (
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"go.uber.org/zap"
)

// LandingPath is where a signed-in admin lands when opening the console root.
const LandingPath = "/members"

// Handler sends visitors of "/" to the first list page or to sign-in.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, LandingPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
