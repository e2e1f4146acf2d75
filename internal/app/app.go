// Package app assembles the portal from configuration: document store,
// identity provider, blob archive, service and HTTP router.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	firebase "firebase.google.com/go/v4"

	api "github.com/mind-engage/mindengage-portal/internal/api/http"
	"github.com/mind-engage/mindengage-portal/internal/config"
	"github.com/mind-engage/mindengage-portal/internal/db"
	"github.com/mind-engage/mindengage-portal/internal/docstore"
	"github.com/mind-engage/mindengage-portal/internal/eventlog"
	"github.com/mind-engage/mindengage-portal/internal/firebaseapp"
	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

type App struct {
	Config   config.Config
	Store    docstore.Store
	Identity identity.Provider
	Service  *portal.Service
	Roles    rbac.RoleResolver
	Handler  http.Handler

	sqlDB *sql.DB
}

// New wires every component described by cfg.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	var fb *firebase.App
	if cfg.NeedsFirebase() {
		var err error
		fb, err = firebaseapp.New(ctx, firebaseapp.Options{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := a.openStore(ctx, fb); err != nil {
		return nil, err
	}
	if err := a.openIdentity(ctx, fb); err != nil {
		_ = a.Close()
		return nil, err
	}

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("blob store: %w", err)
	}

	a.Service = portal.NewService(portal.Deps{
		Store:    a.Store,
		Identity: a.Identity,
		Blobs:    blobs,
		Events:   eventlog.NewRepo(a.Store),
	})
	a.Roles = rbac.NewAllowList(cfg.AdminEmails, rbac.ProfileResolver{Lookup: a.Service})
	a.Handler = api.NewRouter(api.RouterDeps{
		Service:     a.Service,
		Identity:    a.Identity,
		Roles:       a.Roles,
		CORSOrigins: cfg.CORSOrigins,
		Ready:       a.ready,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, fb *firebase.App) error {
	switch a.Config.DBDriver {
	case config.DriverFirestore:
		c, err := fb.Firestore(ctx)
		if err != nil {
			return fmt.Errorf("firestore: %w", err)
		}
		a.Store = docstore.NewFirestoreStore(c)
	default:
		drv := db.Driver(a.Config.DBDriver)
		h, err := db.Open(ctx, drv, a.Config.DBDSN)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		a.sqlDB = h
		a.Store = docstore.NewSQLStore(h, drv)
	}
	return nil
}

func (a *App) openIdentity(ctx context.Context, fb *firebase.App) error {
	switch a.Config.AuthProvider {
	case config.AuthFirebase:
		c, err := fb.Auth(ctx)
		if err != nil {
			return fmt.Errorf("firebase auth: %w", err)
		}
		a.Identity = identity.NewFirebaseProvider(c, identity.LogMailer{})
	default:
		a.Identity = identity.NewLocalProvider(a.Store, identity.LogMailer{}, identity.LocalConfig{
			Secret:   a.Config.AuthHMACSecret,
			TokenTTL: a.Config.TokenTTL,
			ResetURL: a.Config.PasswordResetURL,
		})
	}
	return nil
}

func (a *App) ready(ctx context.Context) error {
	if a.sqlDB != nil {
		return a.sqlDB.PingContext(ctx)
	}
	return nil
}

func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	if err := a.Store.Close(); err != nil {
		log.Printf("close store: %v", err)
		return err
	}
	return nil
}
