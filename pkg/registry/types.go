package registry

// SearchResponse models the subset of the search payload we care about.
type SearchResponse struct {
	Objects []SearchObject `json:"objects"`
	Total   int            `json:"total"`
	Time    string         `json:"time"`
}

// SearchObject represents one entry from the search API.
type SearchObject struct {
	Package     SearchPackage `json:"package"`
	Score       SearchScore   `json:"score"`
	SearchScore float64       `json:"searchScore"`
}

// SearchPackage is the package metadata subset returned by search.
type SearchPackage struct {
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Keywords    []string     `json:"keywords"`
	Date        string       `json:"date"`
	Links       PackageLinks `json:"links"`
	Publisher   Publisher    `json:"publisher"`
	Maintainers []Maintainer `json:"maintainers"`
}

// PackageLinks are the external URLs the registry knows for a package.
type PackageLinks struct {
	NPM        string `json:"npm,omitempty"`
	Homepage   string `json:"homepage,omitempty"`
	Repository string `json:"repository,omitempty"`
	Bugs       string `json:"bugs,omitempty"`
}

// Publisher is the account that published a version.
type Publisher struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Maintainer is a package maintainer entry.
type Maintainer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SearchScore mirrors the score field of the search API. All values are
// in [0, 1].
type SearchScore struct {
	Final  float64     `json:"final"`
	Detail ScoreDetail `json:"detail"`
}

// ScoreDetail breaks a search score into its components.
type ScoreDetail struct {
	Quality     float64 `json:"quality"`
	Popularity  float64 `json:"popularity"`
	Maintenance float64 `json:"maintenance"`
}

// Packument is the package metadata document. Several fields (license,
// author, repository) are "string or object" in the wild and are decoded
// as any; use [StringField] to extract them.
type Packument struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	DistTags    map[string]string           `json:"dist-tags"`
	Versions    map[string]PackumentVersion `json:"versions"`
	Time        map[string]string           `json:"time"`
	Maintainers []Maintainer                `json:"maintainers"`
	Keywords    []string                    `json:"keywords"`
	License     any                         `json:"license"`
	Homepage    string                      `json:"homepage"`
	Repository  any                         `json:"repository"`
	Bugs        Bugs                        `json:"bugs"`
	Author      any                         `json:"author"`
}

// PackumentVersion is one published version's manifest.
type PackumentVersion struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Keywords     []string          `json:"keywords"`
	License      any               `json:"license"`
	Author       any               `json:"author"`
	Homepage     string            `json:"homepage"`
	Repository   any               `json:"repository"`
	Dependencies map[string]string `json:"dependencies"`
	Deprecated   string            `json:"deprecated"`
}

// Bugs is the issue-tracker link of a package.
type Bugs struct {
	URL string `json:"url"`
}

// DownloadsPoint is the payload of the per-package downloads endpoint.
type DownloadsPoint struct {
	Downloads int    `json:"downloads"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Package   string `json:"package"`
}

// StringField extracts a string from a "string or object" JSON value,
// looking up field when the value is an object. npm manifests are
// inconsistent here: license may be "MIT" or {"type": "MIT"}, author may
// be "Jane" or {"name": "Jane"}.
func StringField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}
