package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.WebhookSecret)
	assert.Equal(t, 256, cfg.OutboundQueueCapacity)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 2*time.Second, cfg.DrainTimeout)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("FORGE_WEBHOOK_SECRET", "topsecret")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "topsecret", cfg.WebhookSecret)
	assert.Equal(t, 9090, cfg.Port)
}

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: 1234}
	assert.Equal(t, "127.0.0.1:1234", cfg.Addr())
}

func TestLoadConfig_UnreadableFileErrors(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}
