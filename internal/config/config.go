package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config carries everything the storefront needs from the environment. The
// API host is configurable so no build hardcodes it.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	LogLevel    string
}

// Load reads the environment, after a best-effort .env load for local
// development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:  getEnv("STOREFRONT_API_URL", "http://localhost:8000"),
		HTTPTimeout: getDuration("STOREFRONT_HTTP_TIMEOUT", 30*time.Second),
		LogLevel:    getEnv("STOREFRONT_LOG_LEVEL", "info"),
	}
}

// NewLogger builds the process logger at the configured level. An invalid
// level falls back to info rather than failing startup.
func NewLogger(cfg Config) *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
