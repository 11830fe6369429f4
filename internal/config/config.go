package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Server
	Port        string
	FrontendURL string

	// Database (optional — shot history is skipped when unset)
	DatabaseURL string

	// Redis (optional — result caching is skipped when unset)
	RedisURL string

	// Simulation
	DefaultGameMode string
	CushionModel    string

	// Best-shot search
	SearchWorkers    int
	SearchSimCapSecs int
	StrictKiss       bool

	// Security
	JWTSecret   string
	APIKeyHash  string // bcrypt hash of the worker/API key
	TokenTTLMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		DefaultGameMode: getEnv("GAME_MODE", "carom"),
		CushionModel:    getEnv("CUSHION_MODEL", "uniform"),

		SearchWorkers:    getEnvInt("SEARCH_WORKERS", 4),
		SearchSimCapSecs: getEnvInt("SEARCH_SIM_CAP_SECONDS", 12),
		StrictKiss:       getEnv("SEARCH_STRICT_KISS", "false") == "true",

		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		APIKeyHash:  getEnv("API_KEY_HASH", ""),
		TokenTTLMin: getEnvInt("TOKEN_TTL_MINUTES", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
