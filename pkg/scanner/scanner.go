// Package scanner orchestrates registry calls into scored package
// reports. It owns the response cache and fans out independent HTTP
// requests; scoring itself is delegated to pkg/score.
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkgpulse/pkgpulse/pkg/buildinfo"
	"github.com/pkgpulse/pkgpulse/pkg/cache"
	apperrors "github.com/pkgpulse/pkgpulse/pkg/errors"
	"github.com/pkgpulse/pkgpulse/pkg/observability"
	"github.com/pkgpulse/pkgpulse/pkg/registry"
	"github.com/pkgpulse/pkgpulse/pkg/score"
)

// compareWorkers bounds the number of concurrent scans during Compare.
const compareWorkers = 8

// Scanner queries the npm registry and turns raw responses into scored
// reports. All operations are memoized through the cache under
// canonical, order-independent keys.
type Scanner struct {
	cfg    Config
	npm    *registry.NPM
	cache  cache.Cache
	logger *log.Logger

	// now is overridable for tests.
	now func() time.Time
}

// New creates a Scanner. A nil cache falls back to a fresh in-memory
// cache; a nil logger discards output.
func New(cfg Config, c cache.Cache, logger *log.Logger) *Scanner {
	cfg = cfg.WithDefaults()
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	client := registry.NewClient(cfg.Timeout, cfg.Retries, buildinfo.UserAgent(), nil)
	return &Scanner{
		cfg:    cfg,
		npm:    registry.NewNPM(client, cfg.RegistryURL, cfg.APIURL),
		cache:  c,
		logger: logger,
		now:    time.Now,
	}
}

// Search runs a full-text search against the registry. When
// opts.IncludeUnstable is false, results whose version parses to a
// prerelease are dropped; results with unparseable versions are kept.
func (s *Scanner) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	opts = opts.WithDefaults()
	// The registry URL is part of the key so a persistent cache never
	// serves results recorded against a different registry.
	key := cache.Key("search", s.cfg.RegistryURL, query, opts.Limit,
		opts.IncludeUnstable, opts.Quality, opts.Popularity, opts.Maintenance)

	var results []SearchResult
	if s.fromCache(ctx, "search", key, &results) {
		return results, nil
	}

	observability.Scan().OnSearchStart(ctx, query)
	start := time.Now()

	resp, err := s.npm.Search(ctx, query, registry.SearchParams{
		Size:        opts.Limit,
		Quality:     opts.Quality,
		Popularity:  opts.Popularity,
		Maintenance: opts.Maintenance,
	})
	if err != nil {
		observability.Scan().OnSearchComplete(ctx, query, 0, time.Since(start), err)
		return nil, apperrors.Wrap(apperrors.ErrCodeSearchFailed, err, "search %q failed", query)
	}

	results = make([]SearchResult, 0, len(resp.Objects))
	for _, obj := range resp.Objects {
		r := SearchResult{
			Name:        obj.Package.Name,
			Version:     obj.Package.Version,
			Description: obj.Package.Description,
			Author:      obj.Package.Publisher.Username,
			Keywords:    obj.Package.Keywords,
			Score:       obj.Score,
			Links:       obj.Package.Links,
		}
		if t, err := time.Parse(time.RFC3339, obj.Package.Date); err == nil {
			r.PublishedAt = t
		}
		if vi, ok := score.ParseVersion(obj.Package.Version); ok {
			r.VersionInfo = &vi
			if !vi.Stable && !opts.IncludeUnstable {
				continue
			}
		}
		results = append(results, r)
	}

	observability.Scan().OnSearchComplete(ctx, query, len(results), time.Since(start), nil)
	s.toCache(ctx, "search", key, results)
	return results, nil
}

// Scan fetches a package's metadata (and optionally download counts) and
// assembles a scored report. A missing package surfaces as
// PACKAGE_NOT_FOUND; any other failure as SCAN_FAILED carrying the
// cause. Download-count failures are swallowed and treated as zero.
func (s *Scanner) Scan(ctx context.Context, name string, opts ScanOptions) (*PackageReport, error) {
	if err := apperrors.ValidatePackageName(name); err != nil {
		return nil, err
	}

	key := cache.Key("scan", s.cfg.RegistryURL, s.cfg.APIURL, name, opts.IncludeDownloads)
	var cached PackageReport
	if s.fromCache(ctx, "scan", key, &cached) {
		return &cached, nil
	}

	observability.Scan().OnScanStart(ctx, name)
	start := time.Now()

	doc, err := s.npm.Packument(ctx, name)
	if err != nil {
		err = scanError(name, err)
		observability.Scan().OnScanComplete(ctx, name, time.Since(start), err)
		return nil, err
	}

	var downloads DownloadCounts
	if opts.IncludeDownloads {
		downloads = s.fetchDownloads(ctx, name)
	}

	report, err := s.buildReport(doc, downloads)
	observability.Scan().OnScanComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, "scan", key, report)
	return report, nil
}

// Compare scans every package concurrently and reports each outcome
// individually. It never fails as a whole: a bad name yields a failure
// marker for that entry while the rest complete normally.
func (s *Scanner) Compare(ctx context.Context, names []string, opts ScanOptions) []CompareResult {
	results := make([]CompareResult, len(names))
	sem := make(chan struct{}, compareWorkers)
	var wg sync.WaitGroup

	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := s.Scan(ctx, name, opts)
			r := CompareResult{Name: name, Report: report, Err: err}
			if err != nil {
				s.logger.Debugf("compare: %s: %v", name, err)
				r.Error = err.Error()
			}
			results[i] = r
		}()
	}

	wg.Wait()
	return results
}

// ClearCache drops every memoized response.
func (s *Scanner) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// fetchDownloads issues the weekly and monthly count requests in
// parallel. Either failure degrades to a zero count.
func (s *Scanner) fetchDownloads(ctx context.Context, name string) DownloadCounts {
	var counts DownloadCounts
	var wg sync.WaitGroup

	fetch := func(rng string, dst *int) {
		defer wg.Done()
		point, err := s.npm.Downloads(ctx, rng, name)
		if err != nil {
			s.logger.Debugf("downloads %s for %s unavailable: %v", rng, name, err)
			return
		}
		*dst = point.Downloads
	}

	wg.Add(2)
	go fetch(registry.RangeLastWeek, &counts.Weekly)
	go fetch(registry.RangeLastMonth, &counts.Monthly)
	wg.Wait()

	return counts
}

// buildReport derives every computed field of a report from the raw
// packument and download counts.
func (s *Scanner) buildReport(doc *registry.Packument, downloads DownloadCounts) (*PackageReport, error) {
	latest := doc.DistTags["latest"]
	if latest == "" {
		return nil, apperrors.New(apperrors.ErrCodePackageNotFound, "package %s has no latest version", doc.Name)
	}
	manifest, ok := doc.Versions[latest]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodePackageNotFound, "package %s is missing metadata for version %s", doc.Name, latest)
	}

	now := s.now()
	createdAt := parseTime(doc.Time["created"])
	lastUpdate := parseTime(doc.Time[latest])
	if lastUpdate.IsZero() {
		lastUpdate = parseTime(doc.Time["modified"])
	}

	daysSinceUpdate := daysBetween(lastUpdate, now)
	packageAge := daysBetween(createdAt, now)

	deprecated := manifest.Deprecated != ""

	quality := score.Health(daysSinceUpdate, downloads.Weekly, deprecated, false)
	popularity := score.Popularity(downloads.Weekly)
	maintenance := score.Maintenance(daysSinceUpdate, len(doc.Versions))

	report := &PackageReport{
		Name:              doc.Name,
		Version:           latest,
		Description:       firstNonEmpty(manifest.Description, doc.Description),
		Author:            firstNonEmpty(registry.StringField(manifest.Author, "name"), registry.StringField(doc.Author, "name")),
		License:           firstNonEmpty(registry.StringField(manifest.License, "type"), registry.StringField(doc.License, "type")),
		CreatedAt:         createdAt,
		LastUpdate:        lastUpdate,
		DaysSinceUpdate:   daysSinceUpdate,
		PackageAgeDays:    packageAge,
		Downloads:         downloads,
		Deprecated:        deprecated,
		DeprecatedMessage: manifest.Deprecated,
		TotalVersions:     len(doc.Versions),
		Dependencies:      sortedDependencies(manifest.Dependencies),
		Maintainers:       maintainerNames(doc.Maintainers),
		Keywords:          firstNonEmptySlice(manifest.Keywords, doc.Keywords),
		Homepage:          firstNonEmpty(manifest.Homepage, doc.Homepage),
		Repository:        registry.NormalizeRepoURL(firstNonEmpty(registry.StringField(manifest.Repository, "url"), registry.StringField(doc.Repository, "url"))),
		Bugs:              doc.Bugs.URL,
		Health: HealthReport{
			Quality:     quality.Score,
			Popularity:  popularity,
			Maintenance: maintenance,
			Final:       score.Final(quality.Score, popularity, maintenance),
			Status:      quality.Status,
		},
	}

	if vi, ok := score.ParseVersion(latest); ok {
		report.VersionInfo = &vi
	}

	report.Links = registry.PackageLinks{
		NPM:        "https://www.npmjs.com/package/" + doc.Name,
		Homepage:   report.Homepage,
		Repository: report.Repository,
		Bugs:       report.Bugs,
	}

	return report, nil
}

// scanError maps a packument failure to its operation-level error.
func scanError(name string, err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return apperrors.Wrap(apperrors.ErrCodePackageNotFound, err, "package %s not found", name)
	case errors.Is(err, registry.ErrTimeout):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "scan of %s timed out", name)
	default:
		return apperrors.Wrap(apperrors.ErrCodeScanFailed, err, "failed to scan %s", name)
	}
}

func (s *Scanner) fromCache(ctx context.Context, op, key string, v any) bool {
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, op)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Debugf("cache: dropping corrupt entry %s: %v", key, err)
		_ = s.cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, op)
		return false
	}
	observability.Cache().OnCacheHit(ctx, op)
	return true
}

func (s *Scanner) toCache(ctx context.Context, op, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger.Debugf("cache: set %s failed: %v", key, err)
		return
	}
	observability.Cache().OnCacheSet(ctx, op, len(data))
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func daysBetween(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

func sortedDependencies(deps map[string]string) []Dependency {
	if len(deps) == 0 {
		return nil
	}
	out := make([]Dependency, 0, len(deps))
	for name, version := range deps {
		out = append(out, Dependency{Name: name, Version: version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func maintainerNames(maintainers []registry.Maintainer) []string {
	if len(maintainers) == 0 {
		return nil
	}
	names := make([]string, 0, len(maintainers))
	for _, m := range maintainers {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
