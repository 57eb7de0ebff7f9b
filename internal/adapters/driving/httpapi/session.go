package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

// Session identification.
const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "pdfchat_session"
)

// sessionID returns the caller's session, issuing a new one when absent.
// The ID is echoed in the response header and cookie.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	w.Header().Set(SessionHeader, id)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
