package scanner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkgpulse/pkgpulse/pkg/cache"
	apperrors "github.com/pkgpulse/pkgpulse/pkg/errors"
	"github.com/pkgpulse/pkgpulse/pkg/registry"
)

// fakeRegistry serves a minimal npm registry: search, packuments, and
// download counts for a fixed set of packages.
type fakeRegistry struct {
	mux          *http.ServeMux
	packumentHit atomic.Int32
}

func newFakeRegistry(t *testing.T) (*fakeRegistry, *Scanner) {
	t.Helper()
	f := &fakeRegistry{mux: http.NewServeMux()}

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	f.mux.HandleFunc("/-/v1/search", func(w http.ResponseWriter, r *http.Request) {
		resp := registry.SearchResponse{
			Total: 3,
			Objects: []registry.SearchObject{
				searchObject("express", "4.19.0", 0.92),
				searchObject("express-next", "5.0.0-beta.3", 0.55),
				searchObject("express-vintage", "one-dot-oh", 0.12),
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	f.mux.HandleFunc("/express", func(w http.ResponseWriter, r *http.Request) {
		f.packumentHit.Add(1)
		json.NewEncoder(w).Encode(registry.Packument{
			Name:        "express",
			Description: "Fast, unopinionated web framework",
			DistTags:    map[string]string{"latest": "4.19.0"},
			Versions: map[string]registry.PackumentVersion{
				"4.17.0": {Version: "4.17.0"},
				"4.18.0": {Version: "4.18.0"},
				"4.19.0": {
					Version:      "4.19.0",
					Description:  "Fast, unopinionated web framework",
					License:      "MIT",
					Author:       map[string]any{"name": "TJ Holowaychuk"},
					Repository:   map[string]any{"url": "git+https://github.com/expressjs/express.git"},
					Homepage:     "https://expressjs.com",
					Dependencies: map[string]string{"accepts": "~1.3.8", "body-parser": "1.20.2"},
				},
			},
			Time: map[string]string{
				"created": now.AddDate(-10, 0, 0).Format(time.RFC3339),
				"4.19.0":  now.AddDate(0, 0, -30).Format(time.RFC3339),
			},
			Maintainers: []registry.Maintainer{{Name: "dougwilson"}},
			Bugs:        registry.Bugs{URL: "https://github.com/expressjs/express/issues"},
		})
	})

	f.mux.HandleFunc("/left-padlock", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registry.Packument{
			Name:     "left-padlock",
			DistTags: map[string]string{"latest": "1.0.0"},
			Versions: map[string]registry.PackumentVersion{
				"1.0.0": {Version: "1.0.0", Deprecated: "use right-padlock instead"},
			},
			Time: map[string]string{
				"created": now.AddDate(-4, 0, 0).Format(time.RFC3339),
				"1.0.0":   now.AddDate(-4, 0, 0).Format(time.RFC3339),
			},
		})
	})

	f.mux.HandleFunc("/downloads/point/last-week/express", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registry.DownloadsPoint{Downloads: 30_000_000, Package: "express"})
	})
	f.mux.HandleFunc("/downloads/point/last-month/express", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registry.DownloadsPoint{Downloads: 130_000_000, Package: "express"})
	})
	// No downloads routes for left-padlock: those fetches 404 and must
	// degrade to zero.

	server := httptest.NewServer(f.mux)
	t.Cleanup(server.Close)

	s := New(Config{
		Timeout:     time.Second,
		RegistryURL: server.URL,
		APIURL:      server.URL,
	}, cache.NewMemoryCache(), nil)
	s.now = func() time.Time { return now }

	return f, s
}

func searchObject(name, version string, final float64) registry.SearchObject {
	return registry.SearchObject{
		Package: registry.SearchPackage{
			Name:    name,
			Version: version,
			Date:    "2026-07-01T00:00:00.000Z",
		},
		Score: registry.SearchScore{Final: final},
	}
}

func TestSearchFiltersUnstable(t *testing.T) {
	_, s := newFakeRegistry(t)

	results, err := s.Search(context.Background(), "express", SearchOptions{})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if r.VersionInfo != nil && !r.VersionInfo.Stable {
			t.Errorf("unstable result %s leaked through default filter", r.Name)
		}
	}
	// The prerelease is dropped; the unparseable version is kept.
	if len(results) != 2 {
		t.Fatalf("results = %v, want [express express-vintage]", names)
	}
	if results[1].Name != "express-vintage" || results[1].VersionInfo != nil {
		t.Errorf("unparseable version should be kept with nil VersionInfo, got %+v", results[1])
	}
}

func TestSearchIncludeUnstable(t *testing.T) {
	_, s := newFakeRegistry(t)

	results, err := s.Search(context.Background(), "express", SearchOptions{IncludeUnstable: true})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
}

func TestSearchWrapsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	s := New(Config{Timeout: time.Second, Retries: -1, RegistryURL: server.URL, APIURL: server.URL}, nil, nil)
	_, err := s.Search(context.Background(), "anything", SearchOptions{})
	if !apperrors.Is(err, apperrors.ErrCodeSearchFailed) {
		t.Errorf("Search() = %v, want SEARCH_FAILED", err)
	}
}

func TestScanBuildsReport(t *testing.T) {
	_, s := newFakeRegistry(t)

	report, err := s.Scan(context.Background(), "express", ScanOptions{IncludeDownloads: true})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if report.Version != "4.19.0" {
		t.Errorf("Version = %q, want 4.19.0", report.Version)
	}
	if report.VersionInfo == nil || !report.VersionInfo.Stable {
		t.Errorf("VersionInfo = %+v, want stable 4.19.0", report.VersionInfo)
	}
	if report.Author != "TJ Holowaychuk" {
		t.Errorf("Author = %q", report.Author)
	}
	if report.License != "MIT" {
		t.Errorf("License = %q, want MIT", report.License)
	}
	if report.Repository != "https://github.com/expressjs/express" {
		t.Errorf("Repository = %q, want normalized https URL", report.Repository)
	}
	if report.DaysSinceUpdate != 30 {
		t.Errorf("DaysSinceUpdate = %d, want 30", report.DaysSinceUpdate)
	}
	if report.TotalVersions != 3 {
		t.Errorf("TotalVersions = %d, want 3", report.TotalVersions)
	}
	if report.Downloads.Weekly != 30_000_000 || report.Downloads.Monthly != 130_000_000 {
		t.Errorf("Downloads = %+v", report.Downloads)
	}
	if len(report.Dependencies) != 2 || report.Dependencies[0].Name != "accepts" {
		t.Errorf("Dependencies = %+v, want sorted [accepts body-parser]", report.Dependencies)
	}

	// Fresh, massively downloaded: full marks everywhere.
	if report.Health.Quality != 100 || report.Health.Popularity != 100 || report.Health.Maintenance != 100 {
		t.Errorf("Health = %+v, want all 100", report.Health)
	}
	if report.Health.Final != 1.0 {
		t.Errorf("Final = %v, want 1.0", report.Health.Final)
	}
	if report.Bundle != nil {
		t.Errorf("Bundle = %+v, want nil (not analyzed)", report.Bundle)
	}
}

func TestScanDeprecatedPackage(t *testing.T) {
	_, s := newFakeRegistry(t)

	report, err := s.Scan(context.Background(), "left-padlock", ScanOptions{IncludeDownloads: true})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !report.Deprecated || report.DeprecatedMessage != "use right-padlock instead" {
		t.Errorf("Deprecated = %v %q", report.Deprecated, report.DeprecatedMessage)
	}
	if report.Health.Quality != 0 || report.Health.Status != "deprecated" {
		t.Errorf("Health = %+v, want quality 0 deprecated", report.Health)
	}
	// Download routes are absent for this package; counts degrade to 0.
	if report.Downloads.Weekly != 0 || report.Downloads.Monthly != 0 {
		t.Errorf("Downloads = %+v, want zeros", report.Downloads)
	}
}

func TestScanNotFound(t *testing.T) {
	_, s := newFakeRegistry(t)

	_, err := s.Scan(context.Background(), "missing-pkg", ScanOptions{})
	if !apperrors.Is(err, apperrors.ErrCodePackageNotFound) {
		t.Errorf("Scan() = %v, want PACKAGE_NOT_FOUND", err)
	}
}

func TestScanRejectsInvalidName(t *testing.T) {
	_, s := newFakeRegistry(t)

	_, err := s.Scan(context.Background(), "../../etc/passwd", ScanOptions{})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidPackage) {
		t.Errorf("Scan() = %v, want INVALID_PACKAGE", err)
	}
}

func TestScanUsesCache(t *testing.T) {
	f, s := newFakeRegistry(t)

	ctx := context.Background()
	if _, err := s.Scan(ctx, "express", ScanOptions{}); err != nil {
		t.Fatalf("first Scan() error: %v", err)
	}
	if _, err := s.Scan(ctx, "express", ScanOptions{}); err != nil {
		t.Fatalf("second Scan() error: %v", err)
	}
	if hits := f.packumentHit.Load(); hits != 1 {
		t.Errorf("packument fetched %d times, want 1 (second call cached)", hits)
	}

	if err := s.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache() error: %v", err)
	}
	if _, err := s.Scan(ctx, "express", ScanOptions{}); err != nil {
		t.Fatalf("post-clear Scan() error: %v", err)
	}
	if hits := f.packumentHit.Load(); hits != 2 {
		t.Errorf("packument fetched %d times after clear, want 2", hits)
	}
}

func TestScanCacheKeyedByRegistry(t *testing.T) {
	serve := func(version string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(registry.Packument{
				Name:     "express",
				DistTags: map[string]string{"latest": version},
				Versions: map[string]registry.PackumentVersion{
					version: {Version: version},
				},
				Time: map[string]string{
					"created": "2020-01-01T00:00:00Z",
					version:   "2026-07-01T00:00:00Z",
				},
			})
		}))
	}
	primary := serve("4.19.0")
	defer primary.Close()
	mirror := serve("9.9.9")
	defer mirror.Close()

	shared := cache.NewMemoryCache()
	a := New(Config{Timeout: time.Second, RegistryURL: primary.URL, APIURL: primary.URL}, shared, nil)
	b := New(Config{Timeout: time.Second, RegistryURL: mirror.URL, APIURL: mirror.URL}, shared, nil)

	ctx := context.Background()
	reportA, err := a.Scan(ctx, "express", ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() against primary: %v", err)
	}
	reportB, err := b.Scan(ctx, "express", ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() against mirror: %v", err)
	}

	if reportA.Version != "4.19.0" {
		t.Errorf("primary Version = %q, want 4.19.0", reportA.Version)
	}
	// A shared cache must not serve the primary's report for the mirror.
	if reportB.Version != "9.9.9" {
		t.Errorf("mirror Version = %q, want 9.9.9 (cache entry leaked across registries)", reportB.Version)
	}
}

func TestCompareSettlesAllOutcomes(t *testing.T) {
	_, s := newFakeRegistry(t)

	results := s.Compare(context.Background(), []string{"express", "missing-pkg"}, ScanOptions{})
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	if results[0].Name != "express" || results[0].Failed() {
		t.Errorf("results[0] = %+v, want successful express report", results[0])
	}
	if results[0].Report == nil || results[0].Report.Version != "4.19.0" {
		t.Errorf("results[0].Report = %+v", results[0].Report)
	}

	if results[1].Name != "missing-pkg" || !results[1].Failed() {
		t.Errorf("results[1] = %+v, want failure marker", results[1])
	}
	if !apperrors.Is(results[1].Err, apperrors.ErrCodePackageNotFound) {
		t.Errorf("results[1].Err = %v, want PACKAGE_NOT_FOUND", results[1].Err)
	}
	if results[1].Error == "" || results[1].ErrorMessage() != results[1].Error {
		t.Errorf("results[1].Error = %q, want serializable failure message", results[1].Error)
	}
}

func TestCompareResultJSONKeepsFailureMarker(t *testing.T) {
	_, s := newFakeRegistry(t)

	results := s.Compare(context.Background(), []string{"express", "missing-pkg"}, ScanOptions{})

	data, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []CompareResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded[0].Failed() || decoded[0].Error != "" {
		t.Errorf("decoded[0] = %+v, want clean success entry", decoded[0])
	}
	if !decoded[1].Failed() || decoded[1].Error == "" {
		t.Errorf("decoded[1] = %+v, failure marker lost in JSON round-trip", decoded[1])
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Retries != DefaultRetries {
		t.Errorf("Retries = %d, want %d", cfg.Retries, DefaultRetries)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.RegistryURL != registry.DefaultRegistryURL || cfg.APIURL != registry.DefaultAPIURL {
		t.Errorf("URLs = %q %q", cfg.RegistryURL, cfg.APIURL)
	}

	disabled := Config{Retries: -1}.WithDefaults()
	if disabled.Retries != 0 {
		t.Errorf("negative Retries should normalize to 0, got %d", disabled.Retries)
	}
}
