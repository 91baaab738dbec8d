package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkgpulse/pkgpulse/pkg/export"
	"github.com/pkgpulse/pkgpulse/pkg/scanner"
	"github.com/pkgpulse/pkgpulse/pkg/score"
)

// formatTable is the default human-readable output; everything else is
// dispatched to pkg/export.
const formatTable = "table"

// renderSearch writes search results in the selected format.
func (c *CLI) renderSearch(w io.Writer, results []scanner.SearchResult) error {
	if c.format == formatTable || c.format == "" {
		writeSearchTable(w, results)
		return nil
	}
	f, err := export.ParseFormat(c.format)
	if err != nil {
		return err
	}
	switch f {
	case export.FormatCSV:
		return export.SearchCSV(w, results)
	case export.FormatMarkdown:
		return export.SearchMarkdown(w, results)
	default:
		return export.JSON(w, results)
	}
}

// renderReport writes a package report in the selected format.
func (c *CLI) renderReport(w io.Writer, report *scanner.PackageReport) error {
	if c.format == formatTable || c.format == "" {
		writeReportDetail(report)
		return nil
	}
	f, err := export.ParseFormat(c.format)
	if err != nil {
		return err
	}
	switch f {
	case export.FormatCSV:
		return export.ReportsCSV(w, []*scanner.PackageReport{report})
	case export.FormatMarkdown:
		return export.ReportMarkdown(w, report)
	default:
		return export.JSON(w, report)
	}
}

// renderCompare writes compare outcomes in the selected format.
func (c *CLI) renderCompare(w io.Writer, results []scanner.CompareResult) error {
	if c.format == formatTable || c.format == "" {
		writeCompareTable(w, results)
		return nil
	}
	f, err := export.ParseFormat(c.format)
	if err != nil {
		return err
	}
	switch f {
	case export.FormatCSV:
		return export.CompareCSV(w, results)
	case export.FormatMarkdown:
		return export.CompareMarkdown(w, results)
	default:
		return export.JSON(w, results)
	}
}

// =============================================================================
// Tables
// =============================================================================

func writeSearchTable(w io.Writer, results []scanner.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No packages found"))
		return
	}

	fmt.Fprintln(w, styleTableHeader.Render(padRow([]string{"NAME", "VERSION", "SCORE", "DESCRIPTION"}, searchWidths)))
	for _, r := range results {
		row := []string{
			r.Name,
			r.Version,
			strconv.FormatFloat(r.Score.Final, 'f', 2, 64),
			clip(r.Description, 50),
		}
		fmt.Fprintln(w, padRow(row, searchWidths))
	}
}

func writeCompareTable(w io.Writer, results []scanner.CompareResult) {
	fmt.Fprintln(w, styleTableHeader.Render(padRow([]string{"NAME", "VERSION", "STATUS", "FINAL", "WEEKLY"}, compareWidths)))
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintln(w, padRow([]string{r.Name, "-", "-", "-", "-"}, compareWidths)+" "+styleIconError.Render(clip(r.ErrorMessage(), 60)))
			continue
		}
		h := r.Report.Health
		row := padRow([]string{
			r.Name,
			r.Report.Version,
			string(h.Status),
			strconv.FormatFloat(h.Final, 'f', 2, 64),
			score.FormatNumber(r.Report.Downloads.Weekly),
		}, compareWidths)
		fmt.Fprintln(w, colorizeStatusCell(row, h.Status))
	}
}

// writeReportDetail prints a single report as labeled lines.
func writeReportDetail(r *scanner.PackageReport) {
	printNewline()
	fmt.Println(StyleTitle.Render(r.Name) + " " + StyleDim.Render(r.Version))
	if r.Description != "" {
		printDetail("%s", clip(r.Description, 80))
	}
	printNewline()

	if r.Deprecated {
		printWarning("Deprecated: %s", r.DeprecatedMessage)
		printNewline()
	}

	printKeyValue("Status", renderStatus(r.Health.Status))
	printKeyValue("Quality", strconv.Itoa(r.Health.Quality))
	printKeyValue("Popularity", strconv.Itoa(r.Health.Popularity))
	printKeyValue("Maintenance", strconv.Itoa(r.Health.Maintenance))
	printKeyValue("Final score", strconv.FormatFloat(r.Health.Final, 'f', 2, 64))
	printNewline()

	printKeyValue("Weekly downloads", score.FormatNumber(r.Downloads.Weekly))
	printKeyValue("Monthly downloads", score.FormatNumber(r.Downloads.Monthly))
	printKeyValue("Last update", fmt.Sprintf("%d days ago", r.DaysSinceUpdate))
	printKeyValue("Versions", strconv.Itoa(r.TotalVersions))
	printKeyValue("Dependencies", strconv.Itoa(len(r.Dependencies)))
	if r.License != "" {
		printKeyValue("License", r.License)
	}
	if len(r.Maintainers) > 0 {
		printKeyValue("Maintainers", strings.Join(r.Maintainers, ", "))
	}
	if r.Repository != "" {
		printKeyValue("Repository", StyleLink.Render(r.Repository))
	}
	if r.Homepage != "" && r.Homepage != r.Repository {
		printKeyValue("Homepage", StyleLink.Render(r.Homepage))
	}
	printNewline()
}

// =============================================================================
// Helpers
// =============================================================================

var (
	searchWidths  = []int{32, 12, 7, 52}
	compareWidths = []int{32, 12, 12, 7, 8}
)

// padRow left-aligns each cell to its column width.
func padRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
	}
	return strings.TrimRight(b.String(), " ")
}

// colorizeStatusCell recolors the status word inside a rendered row.
func colorizeStatusCell(row string, s score.Status) string {
	return strings.Replace(row, string(s), renderStatus(s), 1)
}

// clip shortens s to at most max runes.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
