package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Idempotency IdempotencyConfig
}

// IdempotencyConfig controls how long claimed keys stay valid for
// replay/conflict decisions. Operation-specific overrides win over Default.
type IdempotencyConfig struct {
	Default   time.Duration
	Overrides map[string]time.Duration
}

// TTLFor returns the record lifetime for an operation tag.
func (c IdempotencyConfig) TTLFor(operation string) time.Duration {
	if ttl, ok := c.Overrides[operation]; ok && ttl > 0 {
		return ttl
	}
	if c.Default > 0 {
		return c.Default
	}
	return 24 * time.Hour
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "cashdesk"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "cashdesk"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),
		Idempotency: IdempotencyConfig{
			Default:   getenvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
			Overrides: loadTTLOverrides(),
		},
	}

	return cfg
}

// loadTTLOverrides reads IDEMPOTENCY_TTL_<OPERATION> variables, e.g.
// IDEMPOTENCY_TTL_CREATE_PAYMENT=6h.
func loadTTLOverrides() map[string]time.Duration {
	const prefix = "IDEMPOTENCY_TTL_"
	overrides := make(map[string]time.Duration)
	for _, entry := range os.Environ() {
		key, value, found := strings.Cut(entry, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}
		operation := strings.TrimPrefix(key, prefix)
		if operation == "" {
			continue
		}
		ttl, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil || ttl <= 0 {
			continue
		}
		overrides[operation] = ttl
	}
	return overrides
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
