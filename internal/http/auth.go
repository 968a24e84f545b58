package httpapi

import (
	"context"
	"net/http"
)

type contextKey string

const UserIDKey contextKey = "userId"

// DemoUser is used when no auth header is present.
const DemoUser = "demo-user"

// ExtractUser reads the user id set by the fronting proxy and stores it in
// the request context.
func (s *Server) ExtractUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Traefik BasicAuth sets this header
		userID := r.Header.Get("X-Auth-User")

		if userID == "" {
			userID = r.Header.Get("X-Forwarded-User")
		}
		if userID == "" {
			userID = r.Header.Get("Remote-User")
		}

		if userID == "" {
			userID = DemoUser
			s.log.Debug("no auth header, using demo user", "path", r.URL.Path)
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
