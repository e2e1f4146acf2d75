package rbac

import (
	"context"
	"log"
	"strings"

	"github.com/mind-engage/mindengage-portal/internal/identity"
)

// RoleResolver decides the role of an authenticated user.
type RoleResolver interface {
	ResolveRole(ctx context.Context, u identity.User) (string, error)
}

// RoleLookup reads a user's stored role. ok is false when no profile exists.
type RoleLookup interface {
	ProfileRole(ctx context.Context, uid string) (role string, ok bool, err error)
}

// AllowList grants the admin role to configured emails and defers every other
// user to Next.
type AllowList struct {
	emails map[string]struct{}
	Next   RoleResolver
}

func NewAllowList(emails []string, next RoleResolver) *AllowList {
	m := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = identity.NormalizeEmail(e); e != "" {
			m[e] = struct{}{}
		}
	}
	return &AllowList{emails: m, Next: next}
}

func (a *AllowList) Contains(email string) bool {
	_, ok := a.emails[identity.NormalizeEmail(email)]
	return ok
}

func (a *AllowList) ResolveRole(ctx context.Context, u identity.User) (string, error) {
	if a.Contains(u.Email) {
		return RoleAdmin, nil
	}
	if a.Next == nil {
		return RoleStudent, nil
	}
	return a.Next.ResolveRole(ctx, u)
}

// ProfileResolver reads the role from the user's profile document. Missing
// profiles, unknown roles and lookup failures all resolve to student.
type ProfileResolver struct {
	Lookup RoleLookup
}

func (p ProfileResolver) ResolveRole(ctx context.Context, u identity.User) (string, error) {
	role, ok, err := p.Lookup.ProfileRole(ctx, u.UID)
	if err != nil {
		log.Printf("role lookup for %s failed: %v", u.UID, err)
		return RoleStudent, nil
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !ok || role == "" {
		return RoleStudent, nil
	}
	if !DefaultPolicy.Known(role) {
		return RoleStudent, nil
	}
	return role, nil
}
