package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Mizanur7464/home-depot/internal/usecases/authenticating"
	"github.com/Mizanur7464/home-depot/pkg/apiErrors"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// AdminAuthMiddleware guards the /v1/admin subtree with a session token.
// Deal read endpoints stay public; membership verification itself is
// delegated to the external provider when the session is created.
func AdminAuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/v1/admin") {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Authorization header is required", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Bearer token is required", nil)
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Invalid or expired token", nil)
				return
			}

			if !claims.MembershipActive {
				apiErrors.WriteError(w, apiErrors.ErrMembershipInactive, "Membership is not active", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
