// Package export serializes scan results into machine-readable formats.
//
// Three formats are supported: indented JSON (round-trippable through
// the scanner types), CSV for spreadsheets, and Markdown tables for
// pasting into docs and pull requests. All writers stream to an
// io.Writer; the caller owns the destination.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkgpulse/pkgpulse/pkg/errors"
	"github.com/pkgpulse/pkgpulse/pkg/scanner"
	"github.com/pkgpulse/pkgpulse/pkg/score"
)

// Format identifies an output serialization.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name. "md" is accepted as
// an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (expected json, csv or markdown)", s)
	}
}

// JSON writes any value as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// SearchCSV writes search results as CSV with a header row.
func SearchCSV(w io.Writer, results []scanner.SearchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "version", "description", "author", "score"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		rec := []string{
			r.Name,
			r.Version,
			r.Description,
			r.Author,
			strconv.FormatFloat(r.Score.Final, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record for %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportsCSV writes one CSV row per package report.
func ReportsCSV(w io.Writer, reports []*scanner.PackageReport) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name", "version", "status", "quality", "popularity", "maintenance",
		"final", "weekly_downloads", "days_since_update", "deprecated", "license",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range reports {
		rec := []string{
			r.Name,
			r.Version,
			string(r.Health.Status),
			strconv.Itoa(r.Health.Quality),
			strconv.Itoa(r.Health.Popularity),
			strconv.Itoa(r.Health.Maintenance),
			strconv.FormatFloat(r.Health.Final, 'f', 2, 64),
			strconv.Itoa(r.Downloads.Weekly),
			strconv.Itoa(r.DaysSinceUpdate),
			strconv.FormatBool(r.Deprecated),
			r.License,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record for %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CompareCSV writes one CSV row per compared package. Failed entries
// carry the error message in place of scores.
func CompareCSV(w io.Writer, results []scanner.CompareResult) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "version", "status", "final", "weekly_downloads", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		rec := compareRecord(r)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record for %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func compareRecord(r scanner.CompareResult) []string {
	if r.Failed() {
		return []string{r.Name, "", "", "", "", r.ErrorMessage()}
	}
	return []string{
		r.Name,
		r.Report.Version,
		string(r.Report.Health.Status),
		strconv.FormatFloat(r.Report.Health.Final, 'f', 2, 64),
		strconv.Itoa(r.Report.Downloads.Weekly),
		"",
	}
}

// SearchMarkdown writes search results as a Markdown table.
func SearchMarkdown(w io.Writer, results []scanner.SearchResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Name,
			r.Version,
			truncate(r.Description, 60),
			strconv.FormatFloat(r.Score.Final, 'f', 2, 64),
		})
	}
	return markdownTable(w, []string{"Name", "Version", "Description", "Score"}, rows)
}

// ReportMarkdown writes a single report as a Markdown key/value table
// followed by its dependency list.
func ReportMarkdown(w io.Writer, r *scanner.PackageReport) error {
	rows := [][]string{
		{"Version", r.Version},
		{"Status", string(r.Health.Status)},
		{"Quality", strconv.Itoa(r.Health.Quality)},
		{"Popularity", strconv.Itoa(r.Health.Popularity)},
		{"Maintenance", strconv.Itoa(r.Health.Maintenance)},
		{"Final score", strconv.FormatFloat(r.Health.Final, 'f', 2, 64)},
		{"Weekly downloads", score.FormatNumber(r.Downloads.Weekly)},
		{"Last update", strconv.Itoa(r.DaysSinceUpdate) + " days ago"},
		{"License", orDash(r.License)},
		{"Repository", orDash(r.Repository)},
	}
	if r.Deprecated {
		rows = append(rows, []string{"Deprecated", orDash(r.DeprecatedMessage)})
	}

	if _, err := fmt.Fprintf(w, "## %s\n\n", r.Name); err != nil {
		return err
	}
	if err := markdownTable(w, []string{"Field", "Value"}, rows); err != nil {
		return err
	}
	if len(r.Dependencies) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n### Dependencies (%d)\n\n", len(r.Dependencies)); err != nil {
		return err
	}
	for _, d := range r.Dependencies {
		if _, err := fmt.Fprintf(w, "- `%s@%s`\n", d.Name, d.Version); err != nil {
			return err
		}
	}
	return nil
}

// CompareMarkdown writes compare outcomes as a Markdown table. Failed
// entries show the error in the status column.
func CompareMarkdown(w io.Writer, results []scanner.CompareResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			rows = append(rows, []string{r.Name, "-", "error: " + truncate(r.ErrorMessage(), 60), "-", "-"})
			continue
		}
		rows = append(rows, []string{
			r.Name,
			r.Report.Version,
			string(r.Report.Health.Status),
			strconv.FormatFloat(r.Report.Health.Final, 'f', 2, 64),
			score.FormatNumber(r.Report.Downloads.Weekly),
		})
	}
	return markdownTable(w, []string{"Name", "Version", "Status", "Final", "Weekly"}, rows)
}

// markdownTable writes a pipe table with escaped cells.
func markdownTable(w io.Writer, header []string, rows [][]string) error {
	if err := markdownRow(w, header); err != nil {
		return err
	}
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	if err := markdownRow(w, sep); err != nil {
		return err
	}
	for _, row := range rows {
		if err := markdownRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

func markdownRow(w io.Writer, cells []string) error {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", "\\|")
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
	return err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
