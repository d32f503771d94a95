package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	SessionCookie = "member_session"
	SessionHeader = "X-Session-ID"
)

type sessionKey struct{}

// SessionMiddleware gives every browser a session id, the equivalent of its
// own local and session storage. Ids that are not UUIDs are replaced.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
		}

		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
