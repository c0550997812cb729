package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeServer() error {
	var err error
	if c.Server.DataDir, err = expandPath(c.Server.DataDir); err != nil {
		return fmt.Errorf("server.data_dir: %w", err)
	}
	if c.Server.LogDir, err = expandPath(c.Server.LogDir); err != nil {
		return fmt.Errorf("server.log_dir: %w", err)
	}
	c.Server.APIBind = strings.TrimSpace(c.Server.APIBind)
	if c.Server.APIBind == "" {
		c.Server.APIBind = defaultAPIBind
	}
	c.Server.SocketPath = strings.TrimSpace(c.Server.SocketPath)
	if c.Server.SocketPath == "" {
		c.Server.SocketPath = filepath.Join(c.Server.DataDir, "lendwired.sock")
	} else if c.Server.SocketPath, err = expandPath(c.Server.SocketPath); err != nil {
		return fmt.Errorf("server.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.WebhookSmall = webhookFallback(c.Notifications.WebhookSmall, "SLACK_WEBHOOK_URL_SMALL")
	c.Notifications.WebhookMedium = webhookFallback(c.Notifications.WebhookMedium, "SLACK_WEBHOOK_URL_MEDIUM")
	c.Notifications.WebhookLarge = webhookFallback(c.Notifications.WebhookLarge, "SLACK_WEBHOOK_URL_LARGE")
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultRequestTimeout
	}
	if c.Notifications.QueueSize <= 0 {
		c.Notifications.QueueSize = defaultQueueSize
	}
	c.Notifications.Username = strings.TrimSpace(c.Notifications.Username)
	if c.Notifications.Username == "" {
		c.Notifications.Username = defaultUsername
	}
	c.Notifications.Footer = strings.TrimSpace(c.Notifications.Footer)
	if c.Notifications.Footer == "" {
		c.Notifications.Footer = defaultFooter
	}
}

func webhookFallback(value, envKey string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(envKey); ok {
		return strings.TrimSpace(env)
	}
	return ""
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
