package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkgpulse/pkgpulse/internal/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the configuration",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			printKeyValue("Registry", defaultIfEmpty(cfg.Registry.URL, "https://registry.npmjs.org"))
			printKeyValue("Downloads API", defaultIfEmpty(cfg.Registry.APIURL, "https://api.npmjs.org"))
			printKeyValue("Timeout", fmt.Sprintf("%ds", cfg.Registry.TimeoutSeconds))
			printKeyValue("Retries", strconv.Itoa(cfg.Registry.Retries))
			printKeyValue("Cache", strconv.FormatBool(cfg.Cache.Enabled))
			printKeyValue("Cache TTL", fmt.Sprintf("%dm", cfg.Cache.TTLMinutes))
			printKeyValue("Cache dir", c.cacheDir())
			printKeyValue("Format", cfg.Output.Format)
			return nil
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				printWarning("Config already exists at %s (use --force to overwrite)", path)
				return nil
			}
			if err := config.Default().Save(); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Wrote default config")
			printDetail("Path: %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(config.ConfigPath())
			return nil
		},
	}
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
