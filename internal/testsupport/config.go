// Package testsupport provides helpers shared across package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"lendwire/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The API binds to an ephemeral port and webhooks are left unconfigured.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Server.APIBind = "127.0.0.1:0"
	cfg.Server.DataDir = filepath.Join(base, "data")
	cfg.Server.LogDir = filepath.Join(base, "logs")
	cfg.Server.SocketPath = filepath.Join(base, "lendwired.sock")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWebhooks points every tier at the same webhook URL.
func WithWebhooks(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.WebhookSmall = url
		cfg.Notifications.WebhookMedium = url
		cfg.Notifications.WebhookLarge = url
	}
}

// WithSampleData enables demo request seeding.
func WithSampleData() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Lending.SeedSampleData = true
	}
}
