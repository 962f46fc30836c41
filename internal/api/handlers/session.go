package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/confia-app/confia/internal/api/middleware"
	"github.com/confia-app/confia/internal/app"
	"github.com/confia-app/confia/internal/session"
)

// SessionHandler handles session-state endpoints.
type SessionHandler struct {
	sessions *session.Manager
	app      *app.App
	log      zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *session.Manager, a *app.App, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, app: a, log: log}
}

// EnterDemo handles POST /api/session/demo
// Entering demo mode has no effect while a principal is signed in.
func (h *SessionHandler) EnterDemo(w http.ResponseWriter, r *http.Request) {
	h.sessions.EnterDemoMode()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"demo_mode": h.sessions.DemoMode(),
		"mode":      h.app.Mode(),
	})
}

// Logout handles POST /api/session/logout
// It clears both the session and demo mode.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"mode": h.app.Mode(),
	})
}
