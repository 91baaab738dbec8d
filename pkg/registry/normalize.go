package registry

import "strings"

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"git+https://", "https://",
	"git+ssh://git@", "https://",
)

// NormalizeRepoURL converts the repository URL formats found in npm
// manifests (git@, git://, git+ prefixes, .git suffixes) to canonical
// HTTPS form. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = repoURLReplacer.Replace(s)
	s = strings.TrimPrefix(s, "git+")
	return strings.TrimSuffix(s, ".git")
}
