package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the web front server
type Config struct {
	// Server Configuration
	Server ServerConfig

	// Gateway Configuration
	Gateway GatewayConfig

	// Session Configuration
	Session SessionConfig

	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        string
	StaticDir   string   // Built SPA bundle (index.html + assets); empty serves JSON view stubs
	RoutesFile  string   // Optional YAML route table replacing the built-in one
	CORSOrigins []string // Allowed browser origins
}

// GatewayConfig holds the upstream API gateway configuration
type GatewayConfig struct {
	BaseURL         string        // Kong gateway base URL
	IdentityBaseURL string        // Overrides the external identity host (tests only)
	Timeout         time.Duration // Per-request timeout for gateway calls
}

// SessionConfig holds browser session configuration
type SessionConfig struct {
	Backend        string        // sqlite, redis
	Secret         string        // HMAC key for the session cookie
	CookieName     string        // Name of the session cookie
	Secure         bool          // Set the Secure attribute on the cookie
	PruneSchedule  string        // Cron expression for pruning signed-out sessions
	RetentionAfter time.Duration // Idle time before a signed-out session is pruned
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	gatewayTimeout, err := durationEnv("GATEWAY_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	retention, err := durationEnv("SESSION_RETENTION", 720*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:        stringEnv("PORT", "8080"),
			StaticDir:   os.Getenv("STATIC_DIR"),
			RoutesFile:  os.Getenv("ROUTES_FILE"),
			CORSOrigins: listEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Gateway: GatewayConfig{
			// Same default the SPA used when VITE_API_BASE_URL was unset
			BaseURL:         stringEnv("API_BASE_URL", "http://localhost:8000"),
			IdentityBaseURL: os.Getenv("IDENTITY_BASE_URL"),
			Timeout:         gatewayTimeout,
		},
		Session: SessionConfig{
			Backend:        strings.ToLower(stringEnv("SESSION_BACKEND", "sqlite")),
			Secret:         os.Getenv("SESSION_SECRET"),
			CookieName:     stringEnv("SESSION_COOKIE_NAME", "rentalhub_session"),
			Secure:         os.Getenv("SESSION_COOKIE_SECURE") == "true",
			PruneSchedule:  stringEnv("SESSION_PRUNE_SCHEDULE", "@daily"),
			RetentionAfter: retention,
		},
		Database: DatabaseConfig{
			URL: stringEnv("DATABASE_URL", "rentalhub.sqlite"),
		},
		Redis: RedisConfig{
			Address: stringEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Logging: LoggingConfig{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: stringEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &InvalidValueError{Key: key, Value: raw, Err: err}
	}
	return d, nil
}

// InvalidValueError reports an environment variable that could not be parsed
type InvalidValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return "invalid value for " + e.Key + ": " + e.Value + ": " + e.Err.Error()
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
