package app

import (
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiongate/pkg/httpx"
	"github.com/spf13/viper"
)

// Config is read from the environment, optionally seeded from a .env file
// in the working directory. Environment variables win over .env.
type Config struct {
	Port                 int           `mapstructure:"PORT"`                  // HTTP server port (default: 8080)
	Env                  string        `mapstructure:"ENV"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        `mapstructure:"LOG_LEVEL"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        `mapstructure:"LOG_FORMAT"`            // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"` // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration `mapstructure:"HOUSEKEEPING_INTERVAL"` // Housekeeping interval (default: 1h)
	DatabaseFile         string        `mapstructure:"AUTH_DATABASE_FILE"`    // Path to the SQLite database file (default: sessiongate.db)

	// Access-token verification. Exactly one key source is needed: a PEM
	// public key file or the authorization server's JWKS endpoint.
	Issuer              string        `mapstructure:"AUTH_ISSUER"`
	Audience            string        `mapstructure:"AUTH_AUDIENCE"` // Comma separated; empty skips the check
	PublicKeyFile       string        `mapstructure:"AUTH_PUBLIC_KEY_FILE"`
	JWKSURL             string        `mapstructure:"AUTH_JWKS_URL"`
	JWKSRefreshInterval time.Duration `mapstructure:"AUTH_JWKS_REFRESH_INTERVAL"`

	// HookSecret authenticates the authorization server on /v1/hooks.
	HookSecret string `mapstructure:"HOOK_SECRET"`

	// Guard cache. Redis is only used when RedisAddr is set.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	GuardCacheTTL time.Duration `mapstructure:"GUARD_CACHE_TTL"`

	SessionTouchOnAccess      bool          `mapstructure:"SESSION_TOUCH_ON_ACCESS"`
	SessionTouchInterval      time.Duration `mapstructure:"SESSION_TOUCH_INTERVAL"`
	SessionResurrectOnRefresh bool          `mapstructure:"SESSION_RESURRECT_ON_REFRESH"`
	SessionRetention          time.Duration `mapstructure:"SESSION_RETENTION"` // 0 keeps revoked sessions forever

	DeviceIDHeader   string `mapstructure:"DEVICE_ID_HEADER"`
	DeviceNameHeader string `mapstructure:"DEVICE_NAME_HEADER"`
	PlatformHeader   string `mapstructure:"PLATFORM_HEADER"`
	GuardAPIPrefix   string `mapstructure:"GUARD_API_PREFIX"`
	GuardSkipPaths   string `mapstructure:"GUARD_SKIP_PATHS"` // Comma separated; empty keeps the defaults

	// RateLimits come from the RATELIMIT_{HOOK,SELFSERVICE,ADMIN,PUBLIC}_*
	// variables on top of httpx.DefaultRateLimitProfiles.
	RateLimits httpx.RateLimitProfiles `mapstructure:"-"`
}

// LoadConfig reads .env (if present), then builds and validates Config from
// the environment.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", "10s")
	v.SetDefault("HOUSEKEEPING_INTERVAL", "1h")
	v.SetDefault("AUTH_DATABASE_FILE", "sessiongate.db")
	v.SetDefault("AUTH_ISSUER", "")
	v.SetDefault("AUTH_AUDIENCE", "")
	v.SetDefault("AUTH_PUBLIC_KEY_FILE", "")
	v.SetDefault("AUTH_JWKS_URL", "")
	v.SetDefault("AUTH_JWKS_REFRESH_INTERVAL", "10m")
	v.SetDefault("HOOK_SECRET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GUARD_CACHE_TTL", "30s")
	v.SetDefault("SESSION_TOUCH_ON_ACCESS", false)
	v.SetDefault("SESSION_TOUCH_INTERVAL", "5m")
	v.SetDefault("SESSION_RESURRECT_ON_REFRESH", true)
	v.SetDefault("SESSION_RETENTION", "0s")
	v.SetDefault("DEVICE_ID_HEADER", "X-Device-Id")
	v.SetDefault("DEVICE_NAME_HEADER", "X-Device-Name")
	v.SetDefault("PLATFORM_HEADER", "X-Platform")
	v.SetDefault("GUARD_API_PREFIX", "/v1/me")
	v.SetDefault("GUARD_SKIP_PATHS", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	defaults := httpx.DefaultRateLimitProfiles()
	cfg.RateLimits = httpx.RateLimitProfiles{
		Hook:        httpx.ParseRateLimit("HOOK", defaults.Hook, v.GetString),
		SelfService: httpx.ParseRateLimit("SELFSERVICE", defaults.SelfService, v.GetString),
		Admin:       httpx.ParseRateLimit("ADMIN", defaults.Admin, v.GetString),
		Public:      httpx.ParseRateLimit("PUBLIC", defaults.Public, v.GetString),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("config: PORT must be between 1 and 65535")
	}
	if c.PublicKeyFile == "" && c.JWKSURL == "" {
		return errors.New("config: one of AUTH_PUBLIC_KEY_FILE or AUTH_JWKS_URL must be set")
	}
	if c.PublicKeyFile != "" && c.JWKSURL != "" {
		return errors.New("config: AUTH_PUBLIC_KEY_FILE and AUTH_JWKS_URL are mutually exclusive")
	}
	if strings.TrimSpace(c.HookSecret) == "" {
		return errors.New("config: HOOK_SECRET must be set")
	}
	if c.DeviceIDHeader == "" || c.DeviceNameHeader == "" || c.PlatformHeader == "" {
		return errors.New("config: device header names must not be empty")
	}
	return nil
}

// Audiences returns the accepted aud values.
func (c Config) Audiences() []string {
	return splitList(c.Audience)
}

// SkipPaths returns the guard skip paths, or nil to keep the defaults.
func (c Config) SkipPaths() []string {
	return splitList(c.GuardSkipPaths)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
