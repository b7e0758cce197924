// Package config loads service configuration from the environment, with a
// .env file as the development convenience path.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads a .env file if one exists. Missing files are not an error;
// production deployments set real environment variables.
func Load() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded; using process environment")
	}
}

// Get returns the named environment variable, or fallback when unset.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// DatabaseURL returns the Postgres connection string; empty disables
// persistence.
func DatabaseURL() string { return Get("DATABASE_URL", "") }

// RedisAddr returns the Redis address for the action historian; empty
// disables it.
func RedisAddr() string { return Get("REDIS_ADDR", "") }

// JWTSecret returns the HMAC secret for session tokens.
func JWTSecret() string { return Get("JWT_SECRET", "dev-insecure-secret") }

// ListenAddr returns the HTTP listen address.
func ListenAddr() string { return Get("LISTEN_ADDR", ":8080") }
