package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "")
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "")
	t.Setenv("STOREFRONT_LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://store.internal:9000")
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "5s")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "http://store.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "soon")
	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger(Config{LogLevel: "warn"})
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log = NewLogger(Config{LogLevel: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
