// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. DatabaseURL
// and GeminiAPIKey may be empty: the server then runs in parse-only mode
// (no persistence, CSV uploads only), which is what tests and local
// development use.
type Config struct {
	Port         string
	DatabaseURL  string
	GeminiAPIKey string
	// KeywordsFile optionally overrides the built-in categorization keyword
	// table with a YAML file.
	KeywordsFile string
	LogLevel     string
}

// Load reads the environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		KeywordsFile: os.Getenv("KEYWORDS_FILE"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
