package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

type stubProvider struct {
	identity.Provider
	users map[string]identity.User
}

func (s stubProvider) CurrentUser(_ context.Context, tok string) (identity.User, error) {
	if u, ok := s.users[tok]; ok {
		return u, nil
	}
	return identity.User{}, identity.ErrInvalidToken
}

type resolverFunc func(context.Context, identity.User) (string, error)

func (f resolverFunc) ResolveRole(ctx context.Context, u identity.User) (string, error) { return f(ctx, u) }

func TestBearerToken(t *testing.T) {
	tests := map[string]struct {
		header string
		want   string
		ok     bool
	}{
		"valid":      {"Bearer abc", "abc", true},
		"lower case": {"bearer abc", "abc", true},
		"empty":      {"", "", false},
		"basic":      {"Basic Zm9v", "", false},
		"no token":   {"Bearer   ", "", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := BearerToken(r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticateAndAttachRole(t *testing.T) {
	p := stubProvider{users: map[string]identity.User{
		"tok-admin":   {UID: "a1", Email: "admin@example.com"},
		"tok-student": {UID: "s1", Email: "stu@example.com"},
	}}
	res := resolverFunc(func(_ context.Context, u identity.User) (string, error) {
		switch u.UID {
		case "a1":
			return rbac.RoleAdmin, nil
		default:
			return "", errors.New("lookup failed")
		}
	})

	var gotUser identity.User
	var gotRole, gotTok string
	h := Authenticate(p)(AttachRole(res)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
		gotTok = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	do := func(header string) int {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("Bearer tok-admin"))
	assert.Equal(t, "a1", gotUser.UID)
	assert.Equal(t, rbac.RoleAdmin, gotRole)
	assert.Equal(t, "tok-admin", gotTok)

	require.Equal(t, http.StatusOK, do("Bearer tok-student"))
	assert.Equal(t, rbac.RoleStudent, gotRole)

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer forged"))
}

func TestAttachRoleRequiresUser(t *testing.T) {
	h := AttachRole(resolverFunc(func(context.Context, identity.User) (string, error) { return rbac.RoleAdmin, nil }))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
