package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath           string
	QdrantURL        string
	QdrantCollection string
	// QdrantVectorSize is 0 when unset; the API server then skips collection setup.
	QdrantVectorSize int
	APIPort          string
	LogLevel         slog.Level
	LogFormat        string
	HistoryLimit     int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load() // Try current directory

	// Walk up to find a project-level .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	dbPath, err := expandHome(getEnv("CLAMP_DB_PATH", "~/.clamp/db.sqlite"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:           dbPath,
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "documents"),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	// QDRANT_VECTOR_SIZE is optional; collections may be created elsewhere.
	if vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", ""); vectorSizeStr != "" {
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	historyLimit, err := strconv.Atoi(getEnv("HISTORY_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("HISTORY_LIMIT must be a valid integer: %w", err)
	}
	if historyLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be greater than 0")
	}
	cfg.HistoryLimit = historyLimit

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
