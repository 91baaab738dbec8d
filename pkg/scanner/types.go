package scanner

import (
	"time"

	"github.com/pkgpulse/pkgpulse/pkg/registry"
	"github.com/pkgpulse/pkgpulse/pkg/score"
)

// SearchResult is one entry of a search operation. The score fields come
// straight from the registry and are in [0, 1].
type SearchResult struct {
	Name        string                `json:"name"`
	Version     string                `json:"version"`
	VersionInfo *score.VersionInfo    `json:"version_info,omitempty"`
	Description string                `json:"description,omitempty"`
	Author      string                `json:"author,omitempty"`
	Keywords    []string              `json:"keywords,omitempty"`
	Score       registry.SearchScore  `json:"score"`
	Links       registry.PackageLinks `json:"links"`
	PublishedAt time.Time             `json:"published_at,omitzero"`
}

// DownloadCounts holds per-range download totals. Counts degrade to zero
// when the downloads endpoint fails; they never fail a scan.
type DownloadCounts struct {
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

// Dependency is one runtime dependency of the latest version.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthReport aggregates the three heuristic sub-scores. Quality,
// Popularity and Maintenance are computed independently (0-100) and
// averaged into Final on the registry's [0, 1] scale; Status labels the
// quality heuristic.
type HealthReport struct {
	Quality     int          `json:"quality"`
	Popularity  int          `json:"popularity"`
	Maintenance int          `json:"maintenance"`
	Final       float64      `json:"final"`
	Status      score.Status `json:"status"`
}

// BundleInfo would describe the installed size of a package. Bundle
// analysis is out of scope; the field stays nil in reports.
type BundleInfo struct {
	SizeBytes int64 `json:"size_bytes"`
	FileCount int   `json:"file_count"`
}

// PackageReport is the result of scanning a single package. It is built
// fresh from the packument and downloads responses and is immutable once
// constructed.
type PackageReport struct {
	Name              string                `json:"name"`
	Version           string                `json:"version"`
	VersionInfo       *score.VersionInfo    `json:"version_info,omitempty"`
	Description       string                `json:"description,omitempty"`
	Author            string                `json:"author,omitempty"`
	License           string                `json:"license,omitempty"`
	CreatedAt         time.Time             `json:"created_at,omitzero"`
	LastUpdate        time.Time             `json:"last_update,omitzero"`
	DaysSinceUpdate   int                   `json:"days_since_update"`
	PackageAgeDays    int                   `json:"package_age_days"`
	Downloads         DownloadCounts        `json:"downloads"`
	Health            HealthReport          `json:"health"`
	Deprecated        bool                  `json:"deprecated"`
	DeprecatedMessage string                `json:"deprecated_message,omitempty"`
	TotalVersions     int                   `json:"total_versions"`
	Dependencies      []Dependency          `json:"dependencies,omitempty"`
	Maintainers       []string              `json:"maintainers,omitempty"`
	Keywords          []string              `json:"keywords,omitempty"`
	Homepage          string                `json:"homepage,omitempty"`
	Repository        string                `json:"repository,omitempty"`
	Bugs              string                `json:"bugs,omitempty"`
	Links             registry.PackageLinks `json:"links"`
	Bundle            *BundleInfo           `json:"bundle,omitempty"`
}

// CompareResult is the settled outcome for one package of a compare
// operation: either a report or the error that prevented it. Error
// carries the failure message so serialized results keep the marker;
// Err holds the typed error for programmatic inspection.
type CompareResult struct {
	Name   string         `json:"name"`
	Report *PackageReport `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
	Err    error          `json:"-"`
}

// Failed reports whether this package's scan failed.
func (r CompareResult) Failed() bool { return r.Err != nil || r.Error != "" }

// ErrorMessage returns the failure message, or "" for a successful scan.
func (r CompareResult) ErrorMessage() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}
