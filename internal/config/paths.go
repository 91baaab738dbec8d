package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName    = "pkgpulse"
	configFile = "config.toml"
)

// ConfigDir returns the platform-specific configuration directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir() //nolint:errcheck
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName)
		}
		home, _ := os.UserHomeDir() //nolint:errcheck
		return filepath.Join(home, ".config", appName)
	}
}

// CacheDir returns the platform-specific cache directory.
func CacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir() //nolint:errcheck
		return filepath.Join(home, "Library", "Caches", appName)
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default: // linux and others
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, appName)
		}
		home, _ := os.UserHomeDir() //nolint:errcheck
		return filepath.Join(home, ".cache", appName)
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFile)
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
