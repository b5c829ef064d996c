// Package config reads runtime configuration from the process environment,
// optionally seeded from a local .env file.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv seeds the environment from .env when one exists. Missing files are
// fine; deployed environments configure the process directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

// GetEnv reads a string variable, falling back when unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetIntEnv reads an integer variable, falling back when unset or malformed.
func GetIntEnv(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

// IsProduction reports whether ENV names the production deployment. The
// cookie security flags key off this.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
