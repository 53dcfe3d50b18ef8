package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL string
	Port        string
	Env         string
	CORSOrigins []string

	// Paper source
	ArxivBaseURL string

	// Background fetcher (only active when RedisURL is set)
	RedisURL        string
	FetchSchedule   string
	FetchCategories []string
	FetchMaxResults int

	LogLevel  string
	LogFormat string

	SeedDevData bool
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            getEnvWithDefault("PORT", "8080"),
		Env:             getEnvWithDefault("ENV", "development"),
		CORSOrigins:     splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),
		ArxivBaseURL:    getEnvWithDefault("ARXIV_BASE_URL", "https://export.arxiv.org/api/query"),
		RedisURL:        os.Getenv("REDIS_URL"),
		FetchSchedule:   getEnvWithDefault("FETCH_SCHEDULE", "0 6 * * *"),
		FetchCategories: splitList(getEnvWithDefault("FETCH_CATEGORIES", "cs.AI")),
		FetchMaxResults: getEnvIntWithDefault("FETCH_MAX_RESULTS", 25),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvWithDefault("LOG_FORMAT", "text"),
		SeedDevData:     getEnvWithDefault("SEED_DEV_DATA", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Println("WARNING: DATABASE_URL not set. The server will start but report a degraded health status.")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// splitList parses a comma-separated environment value, trimming whitespace
// and dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
