package middleware

import (
	"net/http"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/constants"
)

// RequireRole gates a route group to one identity class. Capability
// checks inside the staff role happen at the service layer against the
// permission table; this only separates the three account kinds.
func RequireRole(role constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role() != role {
				http.Error(w, "Forbidden. Wrong account type", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
