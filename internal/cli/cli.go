// Package cli implements the pkgpulse command-line interface.
//
// This package provides commands for searching the npm registry, scanning
// individual packages into health reports, comparing several packages side
// by side, and managing the response cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - search: Full-text search against the registry
//   - scan: Build a scored health report for one package
//   - compare: Scan several packages concurrently and tabulate the results
//   - cache: Manage the response cache
//   - config: Inspect and initialize the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pkgpulse/pkgpulse/internal/config"
	"github.com/pkgpulse/pkgpulse/pkg/buildinfo"
	"github.com/pkgpulse/pkgpulse/pkg/cache"
	"github.com/pkgpulse/pkgpulse/pkg/scanner"
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg     *config.Config
	verbose bool
	noCache bool
	format  string
}

// New creates a new CLI instance with a default logger.
func New() *CLI {
	return &CLI{
		Logger: newLogger(os.Stderr, log.InfoLevel),
		cfg:    config.Default(),
	}
}

// Execute runs the pkgpulse CLI and returns an error if any command fails.
func Execute() error {
	return New().RootCommand().ExecuteContext(context.Background())
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pkgpulse",
		Short:        "pkgpulse checks the health of npm packages",
		Long:         `pkgpulse is a CLI tool for inspecting npm packages: search the registry, score a package's maintenance and popularity, and compare candidates side by side before adding a dependency.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg

			if c.verbose || cfg.Output.Verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			if c.format == "" {
				c.format = cfg.Output.Format
			}

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the response cache")
	root.PersistentFlags().StringVarP(&c.format, "format", "f", "", "output format: table (default), json, csv, markdown")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newScanner creates a scanner wired to the configured registry and cache.
func (c *CLI) newScanner() *scanner.Scanner {
	return scanner.New(c.cfg.ScannerConfig(), c.newCache(), c.Logger)
}

func (c *CLI) newCache() cache.Cache {
	if c.noCache || !c.cfg.Cache.Enabled {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		c.Logger.Debugf("file cache unavailable, falling back to memory: %v", err)
		return cache.NewMemoryCache()
	}
	return fc
}

// cacheDir returns the configured cache directory, defaulting to the
// platform cache location (~/.cache/pkgpulse on Linux).
func (c *CLI) cacheDir() string {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir
	}
	return config.CacheDir()
}
