// Package appconf loads service configuration from the environment,
// with optional .env support for local development.
package appconf

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment names the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config holds application configuration from environment variables.
type Config struct {
	Env       Environment
	Port      int
	DBPath    string
	APIKeys   []string
	RateLimit int    // requests per second per API key, 0 disables the limit
	NATSURL   string // empty disables event publishing
}

// Load reads configuration from the environment with defaults. A .env
// file in the working directory is merged in first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:       envType("SHUTTLE_ENV", Development),
		Port:      envInt("SHUTTLE_PORT", 4000),
		DBPath:    envStr("SHUTTLE_DB_PATH", "./nightshuttle.db"),
		APIKeys:   ParseAPIKeys(envStr("SHUTTLE_API_KEYS", "test")),
		RateLimit: envInt("SHUTTLE_RATE_LIMIT", 100),
		NATSURL:   envStr("SHUTTLE_NATS_URL", ""),
	}
}

// ParseAPIKeys splits a comma-separated key list, trimming whitespace
// and dropping empty entries.
func ParseAPIKeys(raw string) []string {
	keys := []string{}
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envType(key string, fallback Environment) Environment {
	switch strings.ToLower(os.Getenv(key)) {
	case "production":
		return Production
	case "development":
		return Development
	}
	return fallback
}
