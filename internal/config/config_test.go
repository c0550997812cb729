package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"lendwire/internal/config"
	"lendwire/internal/tier"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SLACK_WEBHOOK_URL_SMALL", "")
	t.Setenv("SLACK_WEBHOOK_URL_MEDIUM", "")
	t.Setenv("SLACK_WEBHOOK_URL_LARGE", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "lendwire", "data")
	if cfg.Server.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Server.DataDir, wantData)
	}
	if cfg.Server.APIBind != "127.0.0.1:3001" {
		t.Fatalf("unexpected api bind: %q", cfg.Server.APIBind)
	}
	if cfg.Server.SocketPath != filepath.Join(wantData, "lendwired.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.Server.SocketPath)
	}
	if cfg.Lending.SmallThreshold != tier.DefaultSmallThreshold {
		t.Fatalf("unexpected small threshold: %v", cfg.Lending.SmallThreshold)
	}
	if cfg.Lending.SeedSampleData {
		t.Fatal("expected sample data seeding disabled by default")
	}
	if cfg.Notifications.WebhookSmall != "" {
		t.Fatalf("expected no small webhook, got %q", cfg.Notifications.WebhookSmall)
	}
	if cfg.Notifications.QueueSize != 64 {
		t.Fatalf("unexpected queue size: %d", cfg.Notifications.QueueSize)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Server.DataDir, cfg.Server.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadReadsFileAndEnvFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
api_bind = "127.0.0.1:0"

[lending]
small_threshold = 5000.0
large_threshold = 25000.0

[notifications]
webhook_large = "https://hooks.slack.com/services/T/B/large"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SLACK_WEBHOOK_URL_SMALL", "https://hooks.slack.com/services/T/B/small")
	t.Setenv("SLACK_WEBHOOK_URL_MEDIUM", "")
	t.Setenv("SLACK_WEBHOOK_URL_LARGE", "https://hooks.slack.com/services/T/B/env-large")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	th := cfg.Thresholds()
	if th.Small != 5000 || th.Large != 25000 {
		t.Fatalf("unexpected thresholds: %+v", th)
	}
	// TOML wins over environment; environment only fills gaps.
	if cfg.Notifications.WebhookLarge != "https://hooks.slack.com/services/T/B/large" {
		t.Fatalf("expected file webhook to win, got %q", cfg.Notifications.WebhookLarge)
	}
	if cfg.Notifications.WebhookSmall != "https://hooks.slack.com/services/T/B/small" {
		t.Fatalf("expected env fallback for small webhook, got %q", cfg.Notifications.WebhookSmall)
	}
	if cfg.Notifications.WebhookMedium != "" {
		t.Fatalf("expected medium webhook empty, got %q", cfg.Notifications.WebhookMedium)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"inverted thresholds", func(c *config.Config) {
			c.Lending.SmallThreshold = 50000
			c.Lending.LargeThreshold = 10000
		}},
		{"zero small threshold", func(c *config.Config) {
			c.Lending.SmallThreshold = 0
		}},
		{"bad webhook url", func(c *config.Config) {
			c.Notifications.WebhookMedium = "not a url"
		}},
		{"bad log format", func(c *config.Config) {
			c.Logging.Format = "xml"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWebhookURLByTier(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.WebhookMedium = "https://hooks.slack.com/services/T/B/medium"
	if got := cfg.WebhookURL("medium"); got != cfg.Notifications.WebhookMedium {
		t.Fatalf("unexpected url for medium: %q", got)
	}
	if got := cfg.WebhookURL("small"); got != "" {
		t.Fatalf("expected empty url for small, got %q", got)
	}
	if got := cfg.WebhookURL("bogus"); got != "" {
		t.Fatalf("expected empty url for unknown tier, got %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected sample config content")
	}
}
