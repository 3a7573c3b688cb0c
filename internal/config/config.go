package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	GeminiAPIKey       string
	GeminiModel        string
	SessionSecret      string
	FrontendURL        string
	StaticDir          string
	Env                string
	Port               string
	MaxBodyBytes       int64
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvWithDefault("GEMINI_MODEL", "gemini-flash-latest"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		FrontendURL:        getEnvWithDefault("FRONTEND_URL", "http://localhost:5173"),
		StaticDir:          getEnvWithDefault("STATIC_DIR", "frontend/dist"),
		Env:                getEnvWithDefault("ENV", "development"),
		Port:               getEnvWithDefault("PORT", "5001"),
		MaxBodyBytes:       getInt64WithDefault("MAX_BODY_BYTES", 50<<20),
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		slog.Warn("Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	return cfg
}

// IsProduction reports whether the server runs in production mode
// (secure cookies, static bundle serving).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64WithDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}
