package app

import (
	"slices"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/httpx"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1m"`

	// DatabaseFile is the SQLite file holding installed shops and credit notes.
	DatabaseFile string `env:"POSAUTH_DATABASE_FILE" envDefault:"posauth.db"`

	Shopify ShopifyConfig `envPrefix:"SHOPIFY_"`
	Session SessionConfig `envPrefix:"POSAUTH_SESSION_"`

	// CORSAllowedOrigins may call the API from a browser. Empty disables CORS.
	CORSAllowedOrigins []string `env:"POSAUTH_CORS_ALLOWED_ORIGINS" envSeparator:","`

	// ExtensionOrigin marks POS extension callers by their Origin header.
	ExtensionOrigin string `env:"POSAUTH_EXTENSION_ORIGIN" envDefault:"extensions.shopifycdn.com"`

	// DefaultShop is the last fallback for POS extension callers. Only set
	// it for single-shop deployments.
	DefaultShop string `env:"POSAUTH_DEFAULT_SHOP"`

	RateLimits httpx.RateLimitProfiles `envPrefix:"RATELIMIT_"`
}

type ShopifyConfig struct {
	// APIKey is the app's client id, expected in the session token aud claim.
	APIKey string `env:"API_KEY"`
	// APISecret signs session tokens.
	APISecret   string        `env:"API_SECRET"`
	TokenLeeway time.Duration `env:"TOKEN_LEEWAY" envDefault:"5s"`
}

type SessionConfig struct {
	// Secret seeds the admin cookie keys and the access token encryption
	// key. In dev an ephemeral secret is generated when it is empty.
	Secret     string        `env:"SECRET"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"creditpos_admin"`
	MaxAge     time.Duration `env:"MAX_AGE" envDefault:"12h"`
	Secure     bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{RateLimits: httpx.DefaultRateLimitProfiles()}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.WithStack(err)
	}
	cfg.RateLimits = cfg.RateLimits.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDev reports whether the service runs in the dev environment.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if !slices.Contains([]string{"json", "text"}, c.LogFormat) {
		return errors.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.DatabaseFile == "" {
		return errors.New("POSAUTH_DATABASE_FILE must not be empty")
	}
	if c.Shopify.TokenLeeway < 0 {
		return errors.New("SHOPIFY_TOKEN_LEEWAY must not be negative")
	}
	if !c.IsDev() {
		if c.Shopify.APIKey == "" || c.Shopify.APISecret == "" {
			return errors.New("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required outside dev")
		}
		if c.Session.Secret == "" {
			return errors.New("POSAUTH_SESSION_SECRET is required outside dev")
		}
	}
	return nil
}
