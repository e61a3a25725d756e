package resolve

import (
	"testing"

	"github.com/blang/semver/v4"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		subject string
		want    Severity
	}{
		{"fix: close file handle", SeverityPatch},
		{"fix(api): close file handle", SeverityPatch},
		{"feat: add export", SeverityMinor},
		{"feature: add export", SeverityMinor},
		{"feat(ui): add export", SeverityMinor},
		{"feat!: drop legacy endpoint", SeverityMajor},
		{"feat(api)!: drop legacy endpoint", SeverityMajor},
		{"breaking change: new wire format", SeverityMajor},
		{"breaking: new wire format", SeverityMajor},
		{"BREAKING CHANGE: new wire format", SeverityMajor},
		{"chore: bump deps", SeverityPatch},
		{"docs: fix typo", SeverityPatch},
		{"update readme", SeverityPatch},
		{"feature creep in the parser", SeverityPatch},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			if got := Classify(tt.subject); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.subject, got, tt.want)
			}
		})
	}
}

func TestBump(t *testing.T) {
	v := func(s string) semver.Version { return semver.MustParse(s) }

	tests := []struct {
		name    string
		current string
		sev     Severity
		policy  FeaturePolicy
		want    string
	}{
		{"patch", "1.2.0", SeverityPatch, FeatureAlways, "1.2.1"},
		{"minor resets patch", "1.2.3", SeverityMinor, FeatureAlways, "1.3.0"},
		{"major resets minor and patch", "1.2.3", SeverityMajor, FeatureAlways, "2.0.0"},
		{"none is identity", "1.2.3", SeverityNone, FeatureAlways, "1.2.3"},
		{"conventional demotes pre-1.0 feature", "0.4.2", SeverityMinor, FeatureConventional, "0.4.3"},
		{"conventional keeps post-1.0 feature", "1.4.2", SeverityMinor, FeatureConventional, "1.5.0"},
		{"always never demotes", "0.4.2", SeverityMinor, FeatureAlways, "0.5.0"},
		{"conventional does not demote breaking", "0.4.2", SeverityMajor, FeatureConventional, "1.0.0"},
		{"prerelease dropped on bump", "1.2.3-rc.1", SeverityPatch, FeatureAlways, "1.2.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bump(v(tt.current), tt.sev, tt.policy)
			if got.String() != tt.want {
				t.Errorf("Bump(%s, %v, %s) = %s, want %s", tt.current, tt.sev, tt.policy, got, tt.want)
			}
		})
	}
}
