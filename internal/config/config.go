// Package config provides configuration for the assistant.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the assistant configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Storage
	DatabasePath string

	// Reasoning service (OpenAI-compatible endpoint)
	GeminiBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	LLMTimeout    time.Duration

	// Web search service
	ExaBaseURL string
	ExaAPIKey  string

	// Session settings. SessionTimeout is advisory metadata for callers;
	// the store never enforces it.
	SessionTimeout     time.Duration
	MaxContextMessages int

	// Cleanup of idle sessions
	CleanupDays     int
	CleanupInterval time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from a .env file (when present) and environment
// variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:           getEnvInt("API_PORT", 8000),
		DatabasePath:       getEnv("MEMORY_DB_PATH", "file:travel_memory.db?cache=shared&mode=rwc&_busy_timeout=5000"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTimeout:         time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		ExaBaseURL:         getEnv("EXA_BASE_URL", "https://api.exa.ai"),
		ExaAPIKey:          getEnv("EXA_API_KEY", ""),
		SessionTimeout:     time.Duration(getEnvInt("SESSION_TIMEOUT", 3600)) * time.Second,
		MaxContextMessages: getEnvInt("MAX_CONTEXT_MESSAGES", 10),
		CleanupDays:        getEnvInt("CLEANUP_DAYS", 30),
		CleanupInterval:    time.Duration(getEnvInt("CLEANUP_INTERVAL_MIN", 60)) * time.Minute,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
