// Package config supplies command-line defaults from the environment.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by the commands.
const (
	EnvRoot  = "OCRSCOPE_ROOT"
	EnvServe = "OCRSCOPE_SERVE"
	EnvCase  = "OCRSCOPE_CASE"
)

// DefaultEnvPaths are tried in order by LoadEnv.
var DefaultEnvPaths = []string{".env", "../.env", "../../.env"}

// LoadEnv loads the first .env file found in paths and returns its path, or
// "" when none exists. Variables already set in the environment win.
func LoadEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("config: loaded env file", "path", path)
			return path
		}
	}
	slog.Debug("config: no env file found, using environment variables")
	return ""
}

// String returns the value of key, or fallback when it is unset or empty.
func String(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
