package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth provider mode constants
const (
	ProviderModeMock   = "mock"
	ProviderModeGoogle = "google"
)

// Cache backend constants
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

type Config struct {
	// Server settings
	ServerAddr   string
	FrontendURL  string
	CORSOrigins  []string
	IsProduction bool

	// JWT settings
	JWTSecret       string
	TokenExpiration time.Duration // default session lifetime
	LoginExpiration time.Duration // session lifetime issued by the login path

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Admin credential (seeded into the singleton row on first run)
	AdminPassword     string
	AdminAPIProtected bool

	// OAuth provider
	ProviderMode       string // "mock" or "google"
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// OAuth HTTP client settings
	OAuthTimeout            time.Duration
	OAuthInsecureSkipVerify bool

	// Provider registry cache
	CacheType        string // "memory" or "redis"
	ProviderCacheTTL time.Duration

	// Redis (rate limit store and registry cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	EnableRateLimit   bool
	RateLimitStore    string // "memory" or "redis"
	AuthRateLimit     int    // requests per minute on auth endpoints
	CallbackRateLimit int    // requests per minute on the callback

	// Audit trail
	AuditLogRetention time.Duration // 0 disables the retention job

	// Metrics
	MetricsEnabled bool
	MetricsToken   string
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "authhub.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":3001"),
		FrontendURL:  frontendURL,
		CORSOrigins:  getEnvSlice("CORS_ORIGINS", []string{frontendURL}),
		IsProduction: getEnvBool("PRODUCTION", false),

		JWTSecret:       getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		TokenExpiration: getEnvDuration("TOKEN_EXPIRATION", 15*time.Minute),
		LoginExpiration: getEnvDuration("LOGIN_EXPIRATION", 30*time.Minute),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		AdminPassword:     getEnv("ADMIN_PASSWORD", "De7au!t"),
		AdminAPIProtected: getEnvBool("ADMIN_API_PROTECTED", false),

		ProviderMode:       getEnv("PROVIDER_MODE", ProviderModeMock),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		OAuthTimeout:            getEnvDuration("OAUTH_TIMEOUT", 15*time.Second),
		OAuthInsecureSkipVerify: getEnvBool("OAUTH_INSECURE_SKIP_VERIFY", false),

		CacheType:        getEnv("CACHE_TYPE", CacheTypeMemory),
		ProviderCacheTTL: getEnvDuration("PROVIDER_CACHE_TTL", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableRateLimit:   getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:    getEnv("RATE_LIMIT_STORE", "memory"),
		AuthRateLimit:     getEnvInt("AUTH_RATE_LIMIT", 30),
		CallbackRateLimit: getEnvInt("CALLBACK_RATE_LIMIT", 10),

		AuditLogRetention: getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),
	}
}

// Validate checks for fatal misconfiguration
func (c *Config) Validate() error {
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("invalid DATABASE_DRIVER: %s (must be: sqlite, postgres)", c.DatabaseDriver)
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
	}
	switch c.ProviderMode {
	case ProviderModeMock:
		// No credentials needed
	case ProviderModeGoogle:
		if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
			return errors.New(
				"GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required when PROVIDER_MODE=google")
		}
	default:
		return fmt.Errorf("invalid PROVIDER_MODE: %s (must be: mock, google)", c.ProviderMode)
	}
	if c.IsProduction && c.JWTSecret == "your-256-bit-secret-change-in-production" {
		return errors.New("JWT_SECRET must be changed in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
