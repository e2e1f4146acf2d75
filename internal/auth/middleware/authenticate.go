package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mind-engage/mindengage-portal/internal/identity"
)

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

// Authenticate resolves the bearer token through the identity provider and
// stores the user in the request context.
func Authenticate(p identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := BearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer")
				return
			}
			u, err := p.CurrentUser(r.Context(), tok)
			if err != nil {
				unauthorized(w, "bad token")
				return
			}
			ctx := withToken(WithUser(r.Context(), u), tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
