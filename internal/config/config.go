package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pkgpulse/pkgpulse/pkg/scanner"
)

// Config represents the complete pkgpulse configuration.
type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Cache    CacheConfig    `toml:"cache"`
	Output   OutputConfig   `toml:"output"`
}

// RegistryConfig controls how the npm registry is reached.
type RegistryConfig struct {
	// URL serves search and package metadata.
	URL string `toml:"url"`

	// APIURL serves download counts.
	APIURL string `toml:"api_url"`

	// TimeoutSeconds bounds each HTTP request attempt.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Retries is the number of additional attempts after a failure.
	// Negative disables retries.
	Retries int `toml:"retries"`
}

// CacheConfig controls response memoization.
type CacheConfig struct {
	// Enabled toggles caching entirely.
	Enabled bool `toml:"enabled"`

	// TTLMinutes is how long responses stay fresh.
	TTLMinutes int `toml:"ttl_minutes"`

	// Dir overrides the cache directory. Empty uses the platform default.
	Dir string `toml:"dir"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Format is the default output format: table, json, csv or markdown.
	Format string `toml:"format"`

	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			TimeoutSeconds: 5,
			Retries:        2,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLMinutes: 5,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// ScannerConfig converts the file settings into a scanner configuration.
func (c *Config) ScannerConfig() scanner.Config {
	return scanner.Config{
		Timeout:     time.Duration(c.Registry.TimeoutSeconds) * time.Second,
		Retries:     c.Registry.Retries,
		CacheTTL:    time.Duration(c.Cache.TTLMinutes) * time.Minute,
		RegistryURL: c.Registry.URL,
		APIURL:      c.Registry.APIURL,
	}
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
