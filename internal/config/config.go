package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"

	IdentityLocal    = "local"
	IdentityFirebase = "firebase"
)

// Config holds application runtime configuration.
type Config struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseCredFile  string `envconfig:"FIREBASE_CREDENTIALS"`
	FirebaseAPIKey    string `envconfig:"FIREBASE_API_KEY"`

	IdentityProvider string        `envconfig:"IDENTITY_PROVIDER" default:"local"`
	JWTSecret        string        `envconfig:"JWT_SECRET"`
	AccessTokenTTL   time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RedisAddr        string        `envconfig:"REDIS_ADDR"`

	GotenbergURL      string   `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	ExtraServicesFile string   `envconfig:"EXTRA_SERVICES_FILE"`
	SeedCatalog       bool     `envconfig:"SEED_CATALOG" default:"false"`
	ManagerEmails     []string `envconfig:"MANAGER_EMAILS"`
	CurrencyCode      string   `envconfig:"CURRENCY_CODE" default:"EUR"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"200"`
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.IdentityProvider = strings.ToLower(strings.TrimSpace(cfg.IdentityProvider))
	cfg.ManagerEmails = normalizeEmails(cfg.ManagerEmails)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings that depend on each other.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.IdentityProvider {
	case IdentityLocal:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for the local identity provider")
		}
	case IdentityFirebase:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firebase identity provider")
		}
		if c.FirebaseAPIKey == "" {
			return errors.New("FIREBASE_API_KEY is required for the firebase identity provider")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}

	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// UsesFirebase reports whether any component needs a firebase app.
func (c Config) UsesFirebase() bool {
	return c.StoreDriver == StoreFirestore || c.IdentityProvider == IdentityFirebase
}

// IsProduction returns true when the application runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
