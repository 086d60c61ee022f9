// Package config loads and validates the clearlogo TOML configuration.
//
// A config file is required for the Plex connection (url, token); every other
// setting has a default. Path fields are expanded (~ and relative paths) and
// normalized during Load, so consumers always see absolute paths.
package config
