package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/randalmurphal/shipwright/git"
	"github.com/randalmurphal/shipwright/workspace"
)

// Release is one resolved release unit: the workspace, its computed next
// version, and the commits that justify it.
type Release struct {
	Workspace    *workspace.Workspace
	Current      semver.Version
	Next         semver.Version
	Severity     Severity
	TagName      string
	Commits      []git.Commit
	FirstRelease bool // No prior release tag existed for this unit
}

// Resolver computes releases for a project's units.
type Resolver struct {
	Git         *git.Context
	Policy      FeaturePolicy
	Independent bool
	Logger      *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Resolve computes the release set for one project. Units with no commits
// since their last release tag are no-ops and omitted. In locked mode one
// version is computed from the whole-repository commit range and applied
// uniformly to every workspace, touched or not.
func (r *Resolver) Resolve(project *workspace.Project) ([]Release, error) {
	if r.Independent {
		return r.resolveIndependent(project)
	}
	return r.resolveLocked(project)
}

func (r *Resolver) resolveLocked(project *workspace.Project) ([]Release, error) {
	root := &project.Root
	prefix := root.TagPrefix

	current, sinceHash, found, err := r.latest(prefix, root.Version)
	if err != nil {
		return nil, err
	}

	commits, err := r.Git.Log(sinceHash, "")
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		r.logger().Info("no commits since last release, skipping", "prefix", prefix)
		return nil, nil
	}

	sev := maxSeverity(commits)
	next := Bump(current, sev, r.Policy)
	tagName := prefix + next.String()

	// Lock-step: every workspace gets the shared version, including ones
	// with no changes of their own.
	var releases []Release
	for _, ws := range project.AllWorkspaces() {
		releases = append(releases, Release{
			Workspace:    ws,
			Current:      current,
			Next:         next,
			Severity:     sev,
			TagName:      tagName,
			Commits:      commits,
			FirstRelease: !found,
		})
	}
	return releases, nil
}

func (r *Resolver) resolveIndependent(project *workspace.Project) ([]Release, error) {
	var releases []Release

	for _, ws := range project.Units() {
		current, sinceHash, found, err := r.latest(ws.TagPrefix, ws.Version)
		if err != nil {
			return nil, err
		}

		commits, err := r.Git.Log(sinceHash, ws.RelPath)
		if err != nil {
			return nil, err
		}
		if len(commits) == 0 {
			r.logger().Debug("workspace unchanged since last release", "workspace", ws.Name)
			continue
		}

		sev := maxSeverity(commits)
		next := Bump(current, sev, r.Policy)

		releases = append(releases, Release{
			Workspace:    ws,
			Current:      current,
			Next:         next,
			Severity:     sev,
			TagName:      ws.TagPrefix + next.String(),
			Commits:      commits,
			FirstRelease: !found,
		})
	}
	return releases, nil
}

// latest finds the most recent release for a tag prefix. Absence of a
// matching tag means no prior release; the manifest version is then
// authoritative and the commit range is unbounded.
func (r *Resolver) latest(prefix, manifestVersion string) (semver.Version, string, bool, error) {
	tags, err := r.Git.Tags(prefix)
	if err != nil {
		return semver.Version{}, "", false, err
	}

	version, hash, found := LatestVersion(tags, prefix)
	if found {
		return version, hash, true, nil
	}

	current, perr := semver.ParseTolerant(manifestVersion)
	if perr != nil {
		return semver.Version{}, "", false, fmt.Errorf("manifest version %q: %w", manifestVersion, perr)
	}
	return current, "", false, nil
}

// LatestVersion picks the highest semantic version among tags matching the
// prefix. Tags whose suffix is not a valid version are ignored, which also
// keeps a shorter prefix from swallowing another workspace's tags
// ("v" never matches "vpkg-a@1.0.0").
func LatestVersion(tags []git.Tag, prefix string) (semver.Version, string, bool) {
	var (
		best     semver.Version
		bestHash string
		found    bool
	)

	for _, tag := range tags {
		if !strings.HasPrefix(tag.Name, prefix) {
			continue
		}
		v, err := semver.Parse(strings.TrimPrefix(tag.Name, prefix))
		if err != nil {
			continue
		}
		if !found || v.GT(best) {
			best = v
			bestHash = tag.Hash
			found = true
		}
	}

	return best, bestHash, found
}

// maxSeverity folds classification over a commit range. Order-independent.
func maxSeverity(commits []git.Commit) Severity {
	max := SeverityNone
	for _, c := range commits {
		if sev := Classify(c.Subject); sev > max {
			max = sev
		}
	}
	return max
}
