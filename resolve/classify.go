// Package resolve turns commit history into release decisions: it classifies
// commits, computes the minimal sufficient semantic-version bump per release
// unit, and locates each unit's most recent release tag.
package resolve

import (
	"regexp"
	"strings"

	"github.com/blang/semver/v4"
)

// Severity orders bump magnitudes. Major > minor > patch; the resolved bump
// for a commit range is the maximum over its commits, which makes severity
// computation order-independent.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityPatch
	SeverityMinor
	SeverityMajor
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityMajor:
		return "major"
	case SeverityMinor:
		return "minor"
	case SeverityPatch:
		return "patch"
	default:
		return "none"
	}
}

// FeaturePolicy governs whether a feature commit bumps the minor version
// before the unit reaches major version 1.
type FeaturePolicy string

const (
	// FeatureAlways bumps minor for features regardless of current major.
	FeatureAlways FeaturePolicy = "always"

	// FeatureConventional demotes feature severity to patch while the
	// current major version is 0.
	FeatureConventional FeaturePolicy = "conventional"
)

// featPrefix matches conventional feature subjects: "feat: x",
// "feature(scope): x". The breaking "!" marker is handled separately.
var featPrefix = regexp.MustCompile(`^(feat|feature)(\([^)]*\))?:`)

// bangPrefix matches the conventional breaking marker: "type!: x" or
// "type(scope)!: x".
var bangPrefix = regexp.MustCompile(`^[a-z]+(\([^)]*\))?!:`)

// Classify maps a commit subject to its severity. Breaking changes are
// recognized by an explicit "breaking change:"/"breaking:" prefix or the
// conventional "!" marker; features by a feat/feature prefix; everything
// else counts as a fix-level change.
func Classify(subject string) Severity {
	s := strings.ToLower(strings.TrimSpace(subject))

	if strings.HasPrefix(s, "breaking change:") || strings.HasPrefix(s, "breaking:") {
		return SeverityMajor
	}
	if bangPrefix.MatchString(s) {
		return SeverityMajor
	}
	if featPrefix.MatchString(s) {
		return SeverityMinor
	}
	return SeverityPatch
}

// Bump applies a severity to a version under the feature policy. SeverityNone
// returns the version unchanged.
func Bump(current semver.Version, sev Severity, policy FeaturePolicy) semver.Version {
	if sev == SeverityMinor && policy == FeatureConventional && current.Major == 0 {
		sev = SeverityPatch
	}

	next := current
	next.Pre = nil
	next.Build = nil

	switch sev {
	case SeverityMajor:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case SeverityMinor:
		next.Minor++
		next.Patch = 0
	case SeverityPatch:
		next.Patch++
	}
	return next
}
