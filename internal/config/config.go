package config

import (
	"os"
	"strconv"

	"study-tracker/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	ContentRoot    string
	LogLevel       string
	SupabaseURL    string
	SupabaseKey    string
	DedupTolerance float64
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		ContentRoot: getEnvOrDefault("CONTENT_ROOT", "./content"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL: getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey: getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		// Two bookmarks within this many scroll percentage points of one
		// another at the same content are considered duplicates.
		DedupTolerance: getEnvFloatOrDefault("BOOKMARK_DEDUP_TOLERANCE", 0.5),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetContentRoot returns the root directory of the markdown content library
func (c *AppConfig) GetContentRoot() string {
	return c.ContentRoot
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetDedupTolerance returns the scroll-percentage tolerance for duplicate
// bookmark detection
func (c *AppConfig) GetDedupTolerance() float64 {
	return c.DedupTolerance
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
