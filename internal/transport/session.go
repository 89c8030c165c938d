package transport

import (
	"net/http"

	"sweet-treats/internal/session"

	"github.com/google/uuid"
)

const sessionCookie = "sid"

// ensureSession resolves the caller's session from the sid cookie, creating
// a fresh session (and setting the cookie) when the cookie is absent,
// malformed, or refers to an evicted session. Every tab gets its own
// isolated cart this way.
func (h *StorefrontHandler) ensureSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if s, ok := h.sessions.Get(id); ok {
				return s
			}
		}
	}

	s := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
