package config

import (
	"os"
	"strconv"

	"github.com/adilg123/bitarchiver/internal/compression/algorithms/lzss"
	"github.com/op/go-logging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	Environment    string
	MaxFileSize    int64 // in bytes
	MaxOutputSize  int   // decoded bytes a single archive may declare
	LZSSWindowSize int
	LogLevel       string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("GO_ENV", "development"),
		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		MaxOutputSize:  int(getEnvInt64("MAX_OUTPUT_SIZE", 256*1024*1024)), // 256MB default
		LZSSWindowSize: int(getEnvInt64("LZSS_WINDOW_SIZE", lzss.DefaultWindowSize)),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
	}

	return cfg
}

// Level returns the go-logging level named by LogLevel, or INFO when the name
// is not recognized.
func (c *Config) Level() logging.Level {
	level, err := logging.LogLevel(c.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}

// IsProduction reports whether GO_ENV selects production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 parses a positive integer environment variable, falling back to
// defaultValue when it is unset or invalid.
func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
