package scanner

import (
	"time"

	"github.com/pkgpulse/pkgpulse/pkg/registry"
)

// Defaults applied by [Config.WithDefaults].
const (
	DefaultTimeout  = 5 * time.Second
	DefaultRetries  = 2
	DefaultCacheTTL = 5 * time.Minute
)

// Config configures a [Scanner]. The zero value is usable: every field
// falls back to a documented default.
type Config struct {
	// Timeout bounds each HTTP request attempt (default 5s).
	Timeout time.Duration

	// Retries is the number of additional attempts after a failed
	// request (default 2, i.e. up to 3 attempts). Negative disables
	// retries entirely.
	Retries int

	// CacheTTL is how long responses are memoized (default 5m).
	CacheTTL time.Duration

	// RegistryURL serves search and package metadata
	// (default https://registry.npmjs.org).
	RegistryURL string

	// APIURL serves download counts (default https://api.npmjs.org).
	APIURL string
}

// WithDefaults returns a copy of Config with zero values replaced by
// defaults.
func (c Config) WithDefaults() Config {
	cfg := c
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.RegistryURL == "" {
		cfg.RegistryURL = registry.DefaultRegistryURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = registry.DefaultAPIURL
	}
	return cfg
}

// SearchOptions configures a search operation.
type SearchOptions struct {
	// Limit is the maximum number of results (default 20, clamped to
	// the registry's maximum of 250).
	Limit int

	// IncludeUnstable keeps results whose latest version carries a
	// prerelease tag. Results with unparseable versions are always
	// kept.
	IncludeUnstable bool

	// Quality, Popularity and Maintenance weight the registry's
	// ranking. Zero leaves the registry default.
	Quality     float64
	Popularity  float64
	Maintenance float64
}

// WithDefaults returns a copy of SearchOptions with zero values replaced
// by defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	opts := o
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	return opts
}

// ScanOptions configures a scan operation.
type ScanOptions struct {
	// IncludeDownloads fetches weekly and monthly download counts
	// alongside the package metadata.
	IncludeDownloads bool
}
