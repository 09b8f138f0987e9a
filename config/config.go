// Package config loads relay configuration from the environment (and,
// optionally, a config file) using viper, per spec.md §6.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds every environment-driven setting enumerated in spec.md §6.
type Config struct {
	Host string
	Port int

	// WebhookSecret is the shared HMAC secret. When empty, signature
	// verification is skipped (a deployment choice, not a per-request one).
	WebhookSecret string

	OutboundQueueCapacity int
	IdleTimeout           time.Duration
	DrainTimeout          time.Duration
}

// Addr returns the host:port the HTTP server should bind to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

const (
	keyHost                  = "host"
	keyPort                  = "port"
	keyWebhookSecret         = "forge_webhook_secret"
	keyOutboundQueueCapacity = "outbound_queue_capacity"
	keyIdleTimeoutSeconds    = "idle_timeout_seconds"
	keyDrainTimeoutSeconds   = "drain_timeout_seconds"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyHost, "0.0.0.0")
	v.SetDefault(keyPort, 8080)
	v.SetDefault(keyWebhookSecret, "")
	v.SetDefault(keyOutboundQueueCapacity, 256)
	v.SetDefault(keyIdleTimeoutSeconds, 60)
	v.SetDefault(keyDrainTimeoutSeconds, 2)
}

// LoadConfig reads configuration from the environment and, if present, from
// configFile. Environment variables always take precedence over file values
// (viper's standard AutomaticEnv behavior), matching spec.md's "enumerated"
// environment configuration contract.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Host:                  v.GetString(keyHost),
		Port:                  v.GetInt(keyPort),
		WebhookSecret:         v.GetString(keyWebhookSecret),
		OutboundQueueCapacity: v.GetInt(keyOutboundQueueCapacity),
		IdleTimeout:           time.Duration(v.GetInt(keyIdleTimeoutSeconds)) * time.Second,
		DrainTimeout:          time.Duration(v.GetInt(keyDrainTimeoutSeconds)) * time.Second,
	}
}

// WatchSecretRotation watches configFile for changes and invokes onRotate
// with the reloaded secret on every change event for the file, whether or
// not the secret itself changed. It is a no-op when
// configFile is empty: env-var-only deployments rotate the secret by
// restarting the process, which this relay treats as an acceptable
// operational tradeoff (see spec.md Open Questions).
func WatchSecretRotation(configFile string, logger *slog.Logger, onRotate func(secret string)) error {
	if configFile == "" {
		return nil
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", configFile, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed, reloading secret", "file", e.Name)
		onRotate(v.GetString(keyWebhookSecret))
	})
	v.WatchConfig()

	return nil
}
