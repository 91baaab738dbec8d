// Package score computes heuristic health scores for npm packages.
//
// All functions are pure and deterministic: they derive 0-100 scores from
// input metrics (days since last publish, weekly downloads, deprecation)
// without any I/O. The thresholds are fixed heuristics, not configurable.
package score

// Status labels a package's overall health.
type Status string

const (
	StatusExcellent  Status = "excellent"
	StatusGood       Status = "good"
	StatusFair       Status = "fair"
	StatusPoor       Status = "poor"
	StatusCritical   Status = "critical"
	StatusDeprecated Status = "deprecated"
	StatusVulnerable Status = "vulnerable"
)

// HealthResult is the outcome of the quality heuristic.
type HealthResult struct {
	Status Status `json:"status"`
	Score  int    `json:"score"`
}

// Health scores package quality from 0 to 100.
//
// Deprecated packages score 0 and short-circuit every other check.
// Packages with known vulnerabilities score a flat 20. Otherwise the
// score starts at 100 and loses points for staleness and low adoption;
// within each penalty group only the largest exceeded threshold applies.
func Health(daysSinceUpdate, downloads int, deprecated, vulnerable bool) HealthResult {
	if deprecated {
		return HealthResult{Status: StatusDeprecated, Score: 0}
	}
	if vulnerable {
		return HealthResult{Status: StatusVulnerable, Score: 20}
	}

	s := 100

	switch {
	case daysSinceUpdate > 1095:
		s -= 60
	case daysSinceUpdate > 730:
		s -= 40
	case daysSinceUpdate > 365:
		s -= 20
	}

	switch {
	case downloads < 10:
		s -= 30
	case downloads < 100:
		s -= 15
	case downloads < 1000:
		s -= 5
	}

	return HealthResult{Status: statusFor(s), Score: s}
}

// statusFor maps a numeric score to its label.
func statusFor(s int) Status {
	switch {
	case s >= 80:
		return StatusExcellent
	case s >= 60:
		return StatusGood
	case s >= 40:
		return StatusFair
	case s >= 20:
		return StatusPoor
	default:
		return StatusCritical
	}
}

// Popularity scores weekly downloads on fixed breakpoints.
func Popularity(weeklyDownloads int) int {
	switch {
	case weeklyDownloads >= 1_000_000:
		return 100
	case weeklyDownloads >= 100_000:
		return 90
	case weeklyDownloads >= 10_000:
		return 80
	case weeklyDownloads >= 1_000:
		return 70
	case weeklyDownloads >= 100:
		return 60
	case weeklyDownloads >= 10:
		return 50
	default:
		return 30
	}
}

// Maintenance scores publish recency. Packages with fewer than three
// published versions lose an extra 10 points. The result is floored at 0.
func Maintenance(daysSinceUpdate, totalVersions int) int {
	s := 100

	switch {
	case daysSinceUpdate > 730:
		s = 30
	case daysSinceUpdate > 365:
		s = 60
	case daysSinceUpdate > 180:
		s = 80
	case daysSinceUpdate > 90:
		s = 90
	}

	if totalVersions < 3 {
		s -= 10
	}
	if s < 0 {
		s = 0
	}
	return s
}

// Final combines the three sub-scores into a single value in [0, 1],
// matching the scale the registry's search API uses for its own scores.
func Final(quality, popularity, maintenance int) float64 {
	return float64(quality+popularity+maintenance) / 300
}
