package auth

import (
	"log"
	"net/http"

	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

// AttachRole resolves the authenticated user's role and stores it for the
// rbac middleware. Must run after Authenticate.
func AttachRole(res rbac.RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			u, ok := UserFromContext(ctx)
			if !ok {
				unauthorized(w, "unauthenticated")
				return
			}
			role, err := res.ResolveRole(ctx, u)
			if err != nil || role == "" {
				if err != nil {
					log.Printf("resolve role for %s: %v", u.UID, err)
				}
				role = rbac.RoleStudent
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
		})
	}
}
