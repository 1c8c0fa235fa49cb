// Package config loads and validates application configuration from environment
// variables (optionally seeded from a .env file) and the dispatch policy file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds all configuration values for the dispatch API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreTimeout bounds every store round-trip. Defaults to 5s. A bare
	// number is read as seconds.
	// Expiry is reported as a retryable store failure.
	StoreTimeout time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// NATSURL is the NATS server for change notifications.
	// Empty disables publishing.
	NATSURL string

	// NATSSubjectPrefix prefixes change subjects: <prefix>.<table>.
	NATSSubjectPrefix string

	// TelegramBotToken and TelegramDispatchChatID route assignment notices to
	// the dispatch desk chat. Both must be set to enable it.
	TelegramBotToken       string
	TelegramDispatchChatID int64

	// PolicyFile is an optional YAML file overriding the dispatch policy.
	PolicyFile string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSOrigins:            splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		NATSURL:                os.Getenv("NATS_URL"),
		NATSSubjectPrefix:      getEnv("NATS_SUBJECT_PREFIX", "fleet.changes"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramDispatchChatID: cast.ToInt64(getEnv("TELEGRAM_DISPATCH_CHAT_ID", "0")),
		PolicyFile:             os.Getenv("DISPATCH_POLICY_FILE"),
	}

	var problems []string

	timeout, err := parseSeconds(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		problems = append(problems, "STORE_TIMEOUT must be a positive duration")
	}
	cfg.StoreTimeout = timeout

	maxBody, err := cast.ToInt64E(getEnv("MAX_BODY_BYTES", "1048576"))
	if err != nil || maxBody <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("required environment variables not set: DATABASE_URL")
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// TelegramEnabled reports whether dispatch desk notices are configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramDispatchChatID != 0
}

// parseSeconds parses a Go duration string. A value without a unit is a
// number of seconds.
func parseSeconds(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v != "" && strings.Trim(v, "0123456789") == "" {
		v += "s"
	}
	return cast.ToDurationE(v)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
