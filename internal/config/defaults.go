package config

import "lendwire/internal/tier"

const (
	defaultAPIBind        = "127.0.0.1:3001"
	defaultDataDir        = "~/.local/share/lendwire/data"
	defaultLogDir         = "~/.local/share/lendwire/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10
	defaultQueueSize      = 64
	defaultUsername       = "Lendwire"
	defaultFooter         = "Lendwire Platform"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			APIBind: defaultAPIBind,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Lending: Lending{
			SmallThreshold: tier.DefaultSmallThreshold,
			LargeThreshold: tier.DefaultLargeThreshold,
		},
		Notifications: Notifications{
			RequestTimeout: defaultRequestTimeout,
			QueueSize:      defaultQueueSize,
			Username:       defaultUsername,
			Footer:         defaultFooter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Thresholds returns the configured tier boundaries.
func (c *Config) Thresholds() tier.Thresholds {
	return tier.Thresholds{
		Small: c.Lending.SmallThreshold,
		Large: c.Lending.LargeThreshold,
	}
}
