package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgpulse/pkgpulse/pkg/scanner"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var noDownloads bool

	cmd := &cobra.Command{
		Use:   "compare <package> <package> [package...]",
		Short: "Compare the health of several packages",
		Long: `Compare scans every named package concurrently and tabulates the
results side by side. A package that fails to scan is reported as an
error row; the remaining packages still complete.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, args, scanner.ScanOptions{IncludeDownloads: !noDownloads})
		},
	}

	cmd.Flags().BoolVar(&noDownloads, "no-downloads", false, "skip download count lookups")

	return cmd
}

func (c *CLI) runCompare(cmd *cobra.Command, names []string, opts scanner.ScanOptions) error {
	logger := loggerFromContext(cmd.Context())

	sp := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Comparing %d packages...", len(names)))
	if c.format == formatTable {
		sp.Start()
	}

	prog := newProgress(logger)
	results := c.newScanner().Compare(cmd.Context(), names, opts)
	sp.Stop()

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			logger.Debugf("compare: %s: %v", r.Name, r.Err)
		}
	}
	prog.done(fmt.Sprintf("Compared %d packages (%d failed)", len(results), failed))

	return c.renderCompare(os.Stdout, results)
}
