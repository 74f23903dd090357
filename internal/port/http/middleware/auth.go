package middleware

import (
	"net/http"
	"strings"

	"github.com/immodirect7-wq/immodirect/internal/auth"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
)

// JWTAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func JWTAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalJWTAuth attaches an identity when a valid bearer token is present
// but lets anonymous requests through. Used on routes whose response varies
// with the caller, such as listing detail with its contact section.
func OptionalJWTAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				// A presented but invalid token is rejected rather than
				// silently downgraded to anonymous.
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
