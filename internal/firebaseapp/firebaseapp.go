// Package firebaseapp initialises the Firebase Admin SDK app shared by the
// Firestore document store and the Firebase identity provider.
package firebaseapp

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

type Options struct {
	ProjectID       string
	CredentialsFile string // empty uses application default credentials
}

func New(ctx context.Context, o Options) (*firebase.App, error) {
	var opts []option.ClientOption
	if o.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	}
	var conf *firebase.Config
	if o.ProjectID != "" {
		conf = &firebase.Config{ProjectID: o.ProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	return app, nil
}
