package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgpulse/pkgpulse/pkg/scanner"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	limit       int     // maximum number of results
	unstable    bool    // include prerelease versions
	quality     float64 // registry ranking weight
	popularity  float64 // registry ranking weight
	maintenance float64 // registry ranking weight
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the npm registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "maximum number of results (up to 250)")
	cmd.Flags().BoolVar(&opts.unstable, "unstable", false, "include prerelease versions")
	cmd.Flags().Float64Var(&opts.quality, "quality", 0, "quality ranking weight")
	cmd.Flags().Float64Var(&opts.popularity, "popularity", 0, "popularity ranking weight")
	cmd.Flags().Float64Var(&opts.maintenance, "maintenance", 0, "maintenance ranking weight")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, query string, opts searchOpts) error {
	logger := loggerFromContext(cmd.Context())

	sp := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Searching for %q...", query))
	if c.format == formatTable {
		sp.Start()
	}

	prog := newProgress(logger)
	results, err := c.newScanner().Search(cmd.Context(), query, scanner.SearchOptions{
		Limit:           opts.limit,
		IncludeUnstable: opts.unstable,
		Quality:         opts.quality,
		Popularity:      opts.popularity,
		Maintenance:     opts.maintenance,
	})
	sp.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Found %d packages", len(results)))

	return c.renderSearch(os.Stdout, results)
}
