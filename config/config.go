// Package config provides centralized configuration, adapted from the
// teacher's root config/config.go (env + defaults, package-level Cfg)
// merged with api/config/config.go's richer field set, retargeted at
// this module's domain (Postgres DSN, secrets path, rate limiting).
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values.
type Config struct {
	Port        string // HTTP server port (e.g., ":8080")
	SecretsPath string // path to the TOML secrets document (see package secrets)
	PostgresDSN string // DSN for the local store (lib/pq)
	RedisAddr   string // address of the TOTP code store

	MaxRequestBody   int64    // maximum request body size in bytes
	RequestTimeout   int      // request timeout in seconds
	RateLimitEnabled bool     // whether the per-IP rate limiter is active
	RateLimit        int      // requests per minute per IP
	CORSOrigins      []string // CORS origins, shown in the startup banner only; no CORS headers are set

	MaxQueryLimit int // row cap shown in the startup banner; Retrieve requests are not capped by it
	DefaultLimit  int // default LIMIT shown in the startup banner; no LIMIT is added to a Retrieve that omits one

	SessionTokenTTLHours int // session JWT lifetime in hours; not read by the server, which mints tokens for a fixed 24 hours
}

// Cfg is the global configuration instance, loaded at startup.
var Cfg Config

func init() {
	godotenv.Load()
	Cfg = Load()
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() Config {
	rateLimitEnabled := strings.ToLower(os.Getenv("QUERYENGINE_RATE_LIMIT_ENABLED")) == "true"

	rateLimit := 100
	if val := os.Getenv("QUERYENGINE_RATE_LIMIT"); val != "" {
		if r, err := strconv.Atoi(val); err == nil && r > 0 {
			rateLimit = r
		}
	}

	requestTimeout := 30
	if val := os.Getenv("QUERYENGINE_REQUEST_TIMEOUT"); val != "" {
		if t, err := strconv.Atoi(val); err == nil && t > 0 {
			requestTimeout = t
		}
	}

	var corsOrigins []string
	if val := os.Getenv("QUERYENGINE_CORS_ORIGINS"); val != "" {
		corsOrigins = strings.Split(val, ",")
		for i := range corsOrigins {
			corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
		}
	}

	maxQueryLimit := 1000
	if val := os.Getenv("QUERYENGINE_MAX_QUERY_LIMIT"); val != "" {
		if l, err := strconv.Atoi(val); err == nil && l >= 0 {
			maxQueryLimit = l
		}
	}

	defaultLimit := 100
	if val := os.Getenv("QUERYENGINE_DEFAULT_LIMIT"); val != "" {
		if l, err := strconv.Atoi(val); err == nil && l >= 0 {
			defaultLimit = l
		}
	}

	sessionTTL := 24
	if val := os.Getenv("QUERYENGINE_SESSION_TTL_HOURS"); val != "" {
		if h, err := strconv.Atoi(val); err == nil && h > 0 {
			sessionTTL = h
		}
	}

	return Config{
		Port:        getEnv("PORT", ":8080"),
		SecretsPath: getEnv("SECRETS_PATH", "secrets.toml"),
		PostgresDSN: getEnv("DATABASE_URL", "postgres://localhost:5432/queryengine?sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		MaxRequestBody:   1 << 20, // 1MB
		RequestTimeout:   requestTimeout,
		RateLimitEnabled: rateLimitEnabled,
		RateLimit:        rateLimit,
		CORSOrigins:      corsOrigins,

		MaxQueryLimit: maxQueryLimit,
		DefaultLimit:  defaultLimit,

		SessionTokenTTLHours: sessionTTL,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
