// Package config loads the installer's own settings.
package config

import (
	"os"
	"path/filepath"
)

const (
	appName    = "installer"
	configFile = "config.toml"
)

// ConfigDir returns the configuration directory for the installer.
func ConfigDir() string {
	// Respect XDG_CONFIG_HOME if set
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir() //nolint:errcheck
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFile)
}
