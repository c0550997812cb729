package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLending(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.APIBind) == "" {
		return errors.New("server.api_bind must be set")
	}
	if strings.TrimSpace(c.Server.DataDir) == "" {
		return errors.New("server.data_dir must be set")
	}
	return nil
}

func (c *Config) validateLending() error {
	if c.Lending.SmallThreshold <= 0 {
		return errors.New("lending.small_threshold must be positive")
	}
	if c.Lending.LargeThreshold <= c.Lending.SmallThreshold {
		return errors.New("lending.large_threshold must exceed lending.small_threshold")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	webhooks := map[string]string{
		"notifications.webhook_small":  c.Notifications.WebhookSmall,
		"notifications.webhook_medium": c.Notifications.WebhookMedium,
		"notifications.webhook_large":  c.Notifications.WebhookLarge,
	}
	for key, value := range webhooks {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s is not a valid URL", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
