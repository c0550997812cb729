// Package config loads, normalizes, and validates lendwire configuration.
//
// Configuration lives in a TOML file (default ~/.config/lendwire/config.toml)
// and is decoded over repository defaults, so a missing file yields a usable
// development configuration. Secrets such as Slack webhook URLs fall back to
// environment variables during normalization; nothing reads the environment
// after startup. Construct a Config once in main and pass it by reference.
package config
