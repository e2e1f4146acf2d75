package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AuthLocal    = "local"
	AuthFirebase = "firebase"

	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"

	devSecret = "dev-secret-change-me"
)

type Config struct {
	HTTPAddr string

	DBDriver string // sqlite|postgres|firestore
	DBDSN    string

	BlobBasePath string

	AuthProvider     string // local|firebase
	AuthHMACSecret   string
	TokenTTL         time.Duration
	PasswordResetURL string

	// AdminEmails are granted the admin role regardless of stored profiles.
	AdminEmails []string
	CORSOrigins []string

	FirebaseProjectID       string
	FirebaseCredentialsFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("BLOB_BASE_PATH", "./data")
	v.SetDefault("AUTH_PROVIDER", AuthLocal)
	v.SetDefault("AUTH_HMAC_SECRET", devSecret)
	v.SetDefault("TOKEN_TTL", "8h")
	v.SetDefault("PASSWORD_RESET_URL", "http://localhost:3000/reset-password")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
}

// Load reads defaults, then the optional YAML file, then the environment.
// With an empty path, portal.yaml in the working directory is used when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("portal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	c := Config{
		HTTPAddr:                v.GetString("HTTP_ADDR"),
		DBDriver:                strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:                   v.GetString("DB_DSN"),
		BlobBasePath:            v.GetString("BLOB_BASE_PATH"),
		AuthProvider:            strings.ToLower(v.GetString("AUTH_PROVIDER")),
		AuthHMACSecret:          v.GetString("AUTH_HMAC_SECRET"),
		TokenTTL:                v.GetDuration("TOKEN_TTL"),
		PasswordResetURL:        v.GetString("PASSWORD_RESET_URL"),
		AdminEmails:             csv(v.Get("ADMIN_EMAILS")),
		CORSOrigins:             csv(v.Get("CORS_ORIGINS")),
		FirebaseProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.AuthProvider == AuthLocal && c.AuthHMACSecret == devSecret {
		log.Println("config: AUTH_HMAC_SECRET not set, using the development secret")
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("config: DB_DRIVER=firestore requires FIREBASE_PROJECT_ID")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.AuthProvider {
	case AuthLocal:
		if c.AuthHMACSecret == "" {
			return errors.New("config: AUTH_HMAC_SECRET is required for local auth")
		}
	case AuthFirebase:
	default:
		return fmt.Errorf("config: unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	return nil
}

// NeedsFirebase reports whether a Firebase app must be initialised.
func (c Config) NeedsFirebase() bool {
	return c.AuthProvider == AuthFirebase || c.DBDriver == DriverFirestore
}

// csv accepts either a comma separated string (env) or a YAML list.
func csv(raw any) []string {
	var parts []string
	switch t := raw.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []any:
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
	case []string:
		parts = t
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
