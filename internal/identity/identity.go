// Package identity is the identity collaborator: it authenticates users and
// yields a stable user id and email.
package identity

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrUnsupported        = errors.New("operation not supported by this identity provider")
	ErrUserNotFound       = errors.New("user not found")
)

const MinPasswordLen = 6

type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type Session struct {
	Token     string    `json:"access_token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

type Provider interface {
	// CurrentUser resolves the user behind a bearer token.
	CurrentUser(ctx context.Context, token string) (User, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	// SignOut invalidates the token (or the user's sessions, provider dependent).
	SignOut(ctx context.Context, token string) error
	// SendPasswordReset delivers a reset link. Unknown emails are not reported.
	SendPasswordReset(ctx context.Context, email string) error
	// DeleteUser removes the account so it can no longer sign in. Unknown
	// uids yield ErrUserNotFound.
	DeleteUser(ctx context.Context, uid string) error
}

// ResetConfirmer is implemented by providers that complete password resets
// themselves rather than through a hosted page.
type ResetConfirmer interface {
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer writes reset links to the process log (dev/offline).
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, email, link string) error {
	log.Printf("password reset for %s: %s", email, link)
	return nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func checkCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") || strings.Contains(email, "/") {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return ErrWeakPassword
	}
	return nil
}
