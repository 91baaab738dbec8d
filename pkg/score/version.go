package score

import "github.com/Masterminds/semver/v3"

// VersionInfo is a parsed semantic version.
type VersionInfo struct {
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
	Build      string `json:"build,omitempty"`
	Stable     bool   `json:"stable"`
}

// ParseVersion parses a strict MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
// version string. Malformed input (missing components, "v" prefix,
// leading zeros, arbitrary text) reports ok=false rather than an error.
// A version is stable iff it carries no prerelease tag.
func ParseVersion(s string) (VersionInfo, bool) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return VersionInfo{}, false
	}
	return VersionInfo{
		Major:      int(v.Major()),
		Minor:      int(v.Minor()),
		Patch:      int(v.Patch()),
		Prerelease: v.Prerelease(),
		Build:      v.Metadata(),
		Stable:     v.Prerelease() == "",
	}, true
}
