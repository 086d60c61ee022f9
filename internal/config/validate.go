package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/clearlogo/config.toml"
		}
		return fmt.Errorf("plex.url is required. Edit %s (create with 'clearlogo config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Plex.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("plex.url %q is not a valid URL", c.Plex.URL)
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token is required. Set it in the config file or export PLEX_TOKEN")
	}
	if c.Plex.Token == tokenPlaceholder {
		return errors.New("plex.token still holds the sample placeholder; replace it with your real token")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
