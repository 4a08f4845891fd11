package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"vfxprompt/internal/domain"
)

type rolesContextKey struct{}

// RoleLister returns the roles held by a user.
type RoleLister interface {
	ListRoles(ctx context.Context, userID string) ([]domain.Role, error)
}

// RequireRole lets the request through when the authenticated user holds
// any of allowed. It must run after AuthJWT.
func RequireRole(roles RoleLister, log zerolog.Logger, allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "")
				return
			}
			held, err := roles.ListRoles(r.Context(), userID)
			if err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("role lookup failed")
				WriteError(w, r, http.StatusInternalServerError, CodeInternal, "")
				return
			}
			if !HasAnyRole(held, allowed...) {
				WriteError(w, r, http.StatusForbidden, CodeForbidden, "")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), rolesContextKey{}, held)))
		})
	}
}

func HasAnyRole(held []domain.Role, allowed ...domain.Role) bool {
	for _, h := range held {
		for _, a := range allowed {
			if h == a {
				return true
			}
		}
	}
	return false
}

// RolesFromContext returns the roles loaded by RequireRole.
func RolesFromContext(ctx context.Context) []domain.Role {
	if v, ok := ctx.Value(rolesContextKey{}).([]domain.Role); ok {
		return v
	}
	return nil
}
