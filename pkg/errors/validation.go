package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// npm package names: optionally scoped (@scope/name), lowercase, URL-safe.
var npmNameRe = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~_]*/)?[a-z0-9-~][a-z0-9-._~_]*$`)

// ValidatePackageName validates an npm package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks
// before they are interpolated into registry URLs.
//
// The validation rules follow the registry's naming constraints:
//   - No empty names
//   - Maximum length of 214 characters (registry limit)
//   - No control characters
//   - No path traversal sequences
//   - Lowercase URL-safe characters, with an optional @scope/ prefix
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidPackage, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPackage, "package name contains invalid sequence %q", "..")
	}

	if !npmNameRe.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %s", name)
	}

	return nil
}
