// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (reference data; optional)
	PostgresURI string

	// Google Places
	PlacesAPIKey  string
	PlacesBaseURL string

	// Vision model
	AnthropicAPIKey string
	VisionModel     string

	// Document ingest
	PollInterval       time.Duration
	PollBatchSize      int
	StaleResetSchedule string

	// Enrichment policy: when true, a missing arrival time is backfilled
	// from the departure time plus an estimated route duration
	EnableDurationBackfill bool
}

// LoadConfig loads configuration from environment variables. It fails when a
// required credential is absent so that misconfiguration surfaces at startup
// rather than mid-run.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "tripdocs"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		PlacesAPIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		PlacesBaseURL: getEnv("PLACES_BASE_URL", "https://places.googleapis.com/v1"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		VisionModel:     getEnv("VISION_MODEL", "claude-sonnet-4-5-20250929"),

		PollInterval:       time.Duration(getEnvAsInt("POLL_INTERVAL", 30)) * time.Second,
		PollBatchSize:      getEnvAsInt("POLL_BATCH_SIZE", 50),
		StaleResetSchedule: getEnv("STALE_RESET_SCHEDULE", "@every 5m"),

		EnableDurationBackfill: getEnvAsBool("ENABLE_DURATION_BACKFILL", false),
	}

	if config.PlacesAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_PLACES_API_KEY environment variable is required")
	}

	return config, nil
}

// VisionConfigured reports whether the vision model credential is present.
// Without it classification falls back to the filename heuristic and
// extraction is unavailable.
func (c *Config) VisionConfigured() bool {
	return c.AnthropicAPIKey != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
