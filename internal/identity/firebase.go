package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// firebaseAuth is the part of *auth.Client the provider uses.
type firebaseAuth interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	CustomToken(ctx context.Context, uid string) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseProvider delegates to Firebase Authentication. Password sign-in is
// done by the client SDK, which then presents its ID token to CurrentUser.
type FirebaseProvider struct {
	client firebaseAuth
	mailer Mailer
}

func NewFirebaseProvider(c *auth.Client, mailer Mailer) *FirebaseProvider {
	return newFirebaseProvider(c, mailer)
}

func newFirebaseProvider(c firebaseAuth, mailer Mailer) *FirebaseProvider {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &FirebaseProvider{client: c, mailer: mailer}
}

func (p *FirebaseProvider) CurrentUser(ctx context.Context, token string) (User, error) {
	tok, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	email, _ := tok.Claims["email"].(string)
	return User{UID: tok.UID, Email: NormalizeEmail(email)}, nil
}

func (p *FirebaseProvider) SignIn(context.Context, string, string) (Session, error) {
	return Session{}, ErrUnsupported
}

// SignUp creates the Firebase user and returns a custom token the client
// exchanges for an ID token.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if err := checkCredentials(email, password); err != nil {
		return Session{}, err
	}
	rec, err := p.client.CreateUser(ctx, (&auth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("firebase: create user: %w", err)
	}
	ct, err := p.client.CustomToken(ctx, rec.UID)
	if err != nil {
		return Session{}, fmt.Errorf("firebase: custom token: %w", err)
	}
	return Session{Token: ct, User: User{UID: rec.UID, Email: email}}, nil
}

// SignOut revokes every refresh token of the token's user.
func (p *FirebaseProvider) SignOut(ctx context.Context, token string) error {
	u, err := p.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	if err := p.client.RevokeRefreshTokens(ctx, u.UID); err != nil {
		return fmt.Errorf("firebase: revoke: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	link, err := p.client.PasswordResetLink(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil
		}
		return fmt.Errorf("firebase: reset link: %w", err)
	}
	return p.mailer.SendPasswordReset(ctx, email, link)
}

func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("firebase: delete user: %w", err)
	}
	return nil
}
