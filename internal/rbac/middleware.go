package rbac

import (
	"encoding/json"
	"net/http"
)

// Require lets the request through when the caller's role holds at least one
// of perms under DefaultPolicy, and answers 403 otherwise.
func Require(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Can(RoleFromContext(r.Context()), perms...) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Can reports whether role holds at least one of perms under DefaultPolicy.
func Can(role string, perms ...Permission) bool {
	return DefaultPolicy.Allows(role, perms...)
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
}
