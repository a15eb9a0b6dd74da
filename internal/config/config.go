package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. It is built once at startup and passed
// explicitly into services; nothing reads the environment after LoadConfig.
type Config struct {
	AppEnv         string
	LogLevel       slog.Level
	ApiServicePort string

	PostgreSQLHost     string
	PostgreSQLPort     int64
	PostgreSQLUser     string
	PostgreSQLPassword string
	PostgreSQLDatabase string

	JWTSecret                string
	JWTIssuer                string
	JWTAudience              string
	AccessTokenExpiryMinutes int64
	RefreshTokenExpiryDays   int64
	TokenCleanupIntervalMins int64

	RedisHost     string
	RedisPort     int64
	RedisPassword string
	RedisDB       int64
	// RevocationCacheTTL caps how long a revoked-token marker lives in Redis
	// (seconds). The database row stays authoritative.
	RevocationCacheTTL int64
}

func LoadConfig() *Config {
	// Optional .env for local development; deployments set the environment
	// directly.
	_ = godotenv.Load()

	return &Config{
		AppEnv:         getEnv("APP_ENV", "development"),                // Default development
		LogLevel:       getLogLevel(),                                   // Default INFO
		ApiServicePort: getEnv("API_SERVICE_PORT", "8080"),              // Default 8080

		PostgreSQLHost:     getEnv("POSTGRESQL_HOST", "db"),                     // Default db
		PostgreSQLPort:     getEnvAsInt64("POSTGRESQL_PORT", 5432),              // Default 5432
		PostgreSQLUser:     getEnv("POSTGRESQL_USER", "identity_user"),          // Default user
		PostgreSQLPassword: getEnv("POSTGRESQL_PASSWORD", "identity_password"),  // Default password
		PostgreSQLDatabase: getEnv("POSTGRESQL_DATABASE", "identity_db"),        // Default database name

		JWTSecret:                getEnv("JWT_SECRET", ""),                           // Required, no default
		JWTIssuer:                getEnv("JWT_ISSUER", ""),                           // Required, no default
		JWTAudience:              getEnv("JWT_AUDIENCE", ""),                         // Required, no default
		AccessTokenExpiryMinutes: getEnvAsInt64("ACCESS_TOKEN_EXPIRY_MINUTES", 15),   // Default 15 minutes
		RefreshTokenExpiryDays:   getEnvAsInt64("REFRESH_TOKEN_EXPIRY_DAYS", 7),      // Default 7 days
		TokenCleanupIntervalMins: getEnvAsInt64("TOKEN_CLEANUP_INTERVAL_MINUTES", 60), // Default hourly

		RedisHost:          getEnv("REDIS_HOST", "redis"),                 // Default redis
		RedisPort:          getEnvAsInt64("REDIS_PORT", 6379),             // Default 6379
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),                  // Default empty
		RedisDB:            getEnvAsInt64("REDIS_DATABASE", 0),            // Default 0
		RevocationCacheTTL: getEnvAsInt64("REVOCATION_CACHE_TTL", 900),    // Default 15 minutes
	}
}

// Validate rejects configurations the token issuer must never run with.
// Serving traffic without a signing key would mean handing out tokens that
// anyone can forge.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	if c.JWTAudience == "" {
		missing = append(missing, "JWT_AUDIENCE")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
