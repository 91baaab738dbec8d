package score

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  VersionInfo
		ok    bool
	}{
		{"1.2.3", VersionInfo{Major: 1, Minor: 2, Patch: 3, Stable: true}, true},
		{"0.0.1", VersionInfo{Major: 0, Minor: 0, Patch: 1, Stable: true}, true},
		{"1.2.3-beta.1", VersionInfo{Major: 1, Minor: 2, Patch: 3, Prerelease: "beta.1"}, true},
		{"1.2.3-rc.1+build.5", VersionInfo{Major: 1, Minor: 2, Patch: 3, Prerelease: "rc.1", Build: "build.5"}, true},
		{"2.0.0+20260101", VersionInfo{Major: 2, Minor: 0, Patch: 0, Build: "20260101", Stable: true}, true},
		{"not-a-version", VersionInfo{}, false},
		{"1.2", VersionInfo{}, false},
		{"v1.2.3", VersionInfo{}, false},
		{"", VersionInfo{}, false},
		{"1.2.3.4", VersionInfo{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseVersion(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseVersion(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseVersionStability(t *testing.T) {
	stable, _ := ParseVersion("3.1.4")
	if !stable.Stable {
		t.Error("release version should be stable")
	}
	pre, _ := ParseVersion("3.1.4-alpha.2")
	if pre.Stable {
		t.Error("prerelease version should not be stable")
	}
}
