package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgpulse/pkgpulse/pkg/scanner"
)

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var noDownloads bool

	cmd := &cobra.Command{
		Use:   "scan <package>",
		Short: "Build a health report for a package",
		Long: `Scan fetches a package's registry metadata and download counts and
derives quality, popularity and maintenance scores from them. Scoped
packages (@org/name) are supported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args[0], scanner.ScanOptions{IncludeDownloads: !noDownloads})
		},
	}

	cmd.Flags().BoolVar(&noDownloads, "no-downloads", false, "skip download count lookups")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, name string, opts scanner.ScanOptions) error {
	logger := loggerFromContext(cmd.Context())

	sp := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Scanning %s...", name))
	if c.format == formatTable {
		sp.Start()
	}

	prog := newProgress(logger)
	report, err := c.newScanner().Scan(cmd.Context(), name, opts)
	sp.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %s@%s", report.Name, report.Version))

	return c.renderReport(os.Stdout, report)
}
