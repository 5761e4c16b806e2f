package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devoverflow/internal/auth"
)

// SessionHandler exposes the signed-in user to client scripts.
type SessionHandler struct {
	users  ProfileService
	logger *slog.Logger
}

func NewSessionHandler(users ProfileService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{users: users, logger: logger}
}

// HandleMe returns the mirrored record of the signed-in identity. An
// identity the webhook has not delivered yet is a 404.
//
// HTTP: GET /api/me
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	clerkID, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByClerkID(r.Context(), clerkID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "session user not mirrored", slog.String("clerkID", clerkID))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout deletes the session cookie. The token itself stays valid
// until it expires; without the cookie the browser no longer sends it.
//
// HTTP: POST /logout
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
