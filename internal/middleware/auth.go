package middleware

import (
	"net/http"

	"github.com/anand/student-registry/internal/auth"
)

// RequireAuth validates the Authorization bearer token against the
// session store and injects the authenticated email into the request
// context.
func RequireAuth(sessions auth.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromHeader(r)
			if token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			email, err := sessions.Get(r.Context(), token)
			if err != nil || email == "" {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithEmail(r.Context(), email)))
		})
	}
}
