package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-portal/internal/docstore"
)

const (
	accountsCollection = "accounts"
	revokedCollection  = "revoked_tokens"
	resetsCollection   = "password_resets"
)

type LocalConfig struct {
	Secret     string
	Issuer     string
	TokenTTL   time.Duration
	ResetURL   string // reset codes are appended as ?code=
	ResetTTL   time.Duration
	BcryptCost int
}

// LocalProvider keeps accounts in the document store and issues HS256 tokens.
type LocalProvider struct {
	store  docstore.Store
	mailer Mailer
	cfg    LocalConfig
	hmac   []byte
	now    func() time.Time
}

func NewLocalProvider(store docstore.Store, mailer Mailer, cfg LocalConfig) *LocalProvider {
	if cfg.Issuer == "" {
		cfg.Issuer = "portal-local"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &LocalProvider{store: store, mailer: mailer, cfg: cfg, hmac: []byte(cfg.Secret), now: time.Now}
}

// account documents are keyed by normalised email, so Insert enforces one
// account per address across processes.
type account struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if err := checkCredentials(email, password); err != nil {
		return Session{}, err
	}
	if _, err := p.findAccount(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return Session{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return Session{}, err
	}
	acc := account{UID: uuid.NewString(), Email: email, PasswordHash: string(hash), CreatedAt: p.now().UnixMilli()}
	f, err := docstore.Encode(acc)
	if err != nil {
		return Session{}, err
	}
	if err := p.store.Insert(ctx, accountsCollection, email, f); err != nil {
		if errors.Is(err, docstore.ErrExists) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}
	return p.issue(User{UID: acc.UID, Email: email})
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	acc, err := p.findAccount(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return p.issue(User{UID: acc.UID, Email: acc.Email})
}

// CurrentUser accepts a token only while it is unrevoked and its account
// still exists under the same uid.
func (p *LocalProvider) CurrentUser(ctx context.Context, token string) (User, error) {
	c, err := p.parse(token)
	if err != nil {
		return User{}, err
	}
	if _, err := p.store.Get(ctx, revokedCollection, c.ID); err == nil {
		return User{}, ErrInvalidToken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return User{}, err
	}
	acc, err := p.findAccount(ctx, c.Email)
	if errors.Is(err, docstore.ErrNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, err
	}
	if acc.UID != c.Subject {
		return User{}, ErrInvalidToken
	}
	return User{UID: c.Subject, Email: c.Email}, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, revokedCollection, c.ID, docstore.Fields{
		"uid":       c.Subject,
		"expiresAt": c.ExpiresAt.UnixMilli(),
	})
}

func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	acc, err := p.findAccount(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	code := uuid.NewString()
	if err := p.store.Set(ctx, resetsCollection, code, docstore.Fields{
		"uid":       acc.UID,
		"email":     email,
		"expiresAt": p.now().Add(p.cfg.ResetTTL).UnixMilli(),
	}); err != nil {
		return err
	}
	return p.mailer.SendPasswordReset(ctx, email, p.resetLink(code))
}

// ConfirmPasswordReset sets a new password for the account behind a reset
// code. Codes are single use.
func (p *LocalProvider) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < MinPasswordLen {
		return ErrWeakPassword
	}
	doc, err := p.store.Get(ctx, resetsCollection, code)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrInvalidResetCode
	}
	if err != nil {
		return err
	}
	var reset struct {
		UID       string `json:"uid"`
		Email     string `json:"email"`
		ExpiresAt int64  `json:"expiresAt"`
	}
	if err := docstore.Decode(doc.Fields, &reset); err != nil {
		return err
	}
	if err := p.store.Delete(ctx, resetsCollection, code); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	if p.now().UnixMilli() > reset.ExpiresAt {
		return ErrInvalidResetCode
	}

	acc, err := p.findAccount(ctx, reset.Email)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrInvalidResetCode
	}
	if err != nil {
		return fmt.Errorf("reset: load account: %w", err)
	}
	// the address was deleted and registered again since the code was sent
	if acc.UID != reset.UID {
		return ErrInvalidResetCode
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.cfg.BcryptCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = string(hash)
	f, err := docstore.Encode(acc)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, accountsCollection, reset.Email, f)
}

// DeleteUser removes the account with the given uid. Outstanding tokens stop
// resolving in CurrentUser.
func (p *LocalProvider) DeleteUser(ctx context.Context, uid string) error {
	docs, err := p.store.List(ctx, accountsCollection, docstore.Query{Limit: 1}.Where("uid", uid))
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return ErrUserNotFound
	}
	if err := p.store.Delete(ctx, accountsCollection, docs[0].ID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (p *LocalProvider) findAccount(ctx context.Context, email string) (account, error) {
	doc, err := p.store.Get(ctx, accountsCollection, email)
	if err != nil {
		return account{}, err
	}
	var acc account
	if err := docstore.Decode(doc.Fields, &acc); err != nil {
		return account{}, err
	}
	return acc, nil
}

func (p *LocalProvider) issue(u User) (Session, error) {
	now := p.now()
	exp := now.Add(p.cfg.TokenTTL)
	claims := &Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UID,
			ID:        uuid.NewString(),
			Issuer:    p.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.hmac)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, User: u, ExpiresAt: exp}, nil
}

func (p *LocalProvider) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.cfg.Issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.Subject == "" || c.ID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

func (p *LocalProvider) resetLink(code string) string {
	base := p.cfg.ResetURL
	if base == "" {
		return code
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + "?code=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()
	return u.String()
}
