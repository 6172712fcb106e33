package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// startup and passed explicitly to the components that need it.
type Config struct {
	DatabaseURL    string
	Port           string
	PrometheusPort string
	LogLevel       string
	LogFormat      string
	SessionSecret  string

	Places  PlacesConfig
	Storage StorageConfig

	HTTPClientTimeout time.Duration
}

// PlacesConfig configures the maps/places enrichment client.
type PlacesConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	RPS      float64
}

// Enabled reports whether enrichment lookups can be made.
func (c PlacesConfig) Enabled() bool {
	return c.APIKey != ""
}

// StorageConfig configures photo uploads.
type StorageConfig struct {
	SupabaseURL    string
	SupabaseKey    string
	Bucket         string
	UploadDir      string
	MaxUploadBytes int64
}

// Backend returns "supabase", "local" or "" when uploads are disabled.
func (c StorageConfig) Backend() string {
	switch {
	case c.SupabaseURL != "" && c.SupabaseKey != "":
		return "supabase"
	case c.UploadDir != "":
		return "local"
	default:
		return ""
	}
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "text"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		Places: PlacesConfig{
			APIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
			BaseURL:  getEnvOrDefault("PLACES_BASE_URL", "https://places.googleapis.com"),
			Language: getEnvOrDefault("PLACES_LANGUAGE", "ja"),
		},
		Storage: StorageConfig{
			SupabaseURL: os.Getenv("SUPABASE_URL"),
			SupabaseKey: os.Getenv("SUPABASE_KEY"),
			Bucket:      getEnvOrDefault("SUPABASE_BUCKET", "place-photos"),
			UploadDir:   os.Getenv("UPLOAD_DIR"),
		},
	}

	// Required environment variables
	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	if cfg.Places.RPS, err = strconv.ParseFloat(getEnvOrDefault("PLACES_RPS", "5"), 64); err != nil || cfg.Places.RPS <= 0 {
		return nil, fmt.Errorf("PLACES_RPS must be a positive number")
	}
	if cfg.Storage.MaxUploadBytes, err = strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_BYTES", "10485760"), 10, 64); err != nil || cfg.Storage.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}
	if cfg.HTTPClientTimeout, err = time.ParseDuration(getEnvOrDefault("HTTP_CLIENT_TIMEOUT", "15s")); err != nil {
		return nil, fmt.Errorf("HTTP_CLIENT_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
