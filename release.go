package shipwright

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/shipwright/changelog"
	"github.com/randalmurphal/shipwright/config"
	"github.com/randalmurphal/shipwright/git"
	"github.com/randalmurphal/shipwright/notify"
	"github.com/randalmurphal/shipwright/platform"
	"github.com/randalmurphal/shipwright/publish"
	"github.com/randalmurphal/shipwright/resolve"
	"github.com/randalmurphal/shipwright/workspace"
)

// Options configures a Releaser.
type Options struct {
	// RepoPath is the repository root. Required.
	RepoPath string

	// Config overrides the configuration loaded from the repository's
	// .shipwright.yaml. Nil loads from the repository.
	Config *config.Config

	// Plugins are the build-system discovery plugins. Nil uses
	// workspace.DefaultPlugins.
	Plugins []workspace.Plugin

	// Publishers overrides the publish plugins built from configuration.
	Publishers []publish.Publisher

	// Notifier receives run events. Nil logs events via Logger.
	Notifier notify.Notifier

	// Logger for run progress. Nil uses slog.Default.
	Logger *slog.Logger

	// DryRun resolves and applies file updates, then discards them instead
	// of committing. Nothing is tagged, pushed, or published.
	DryRun bool

	// GitOptions are passed through to git.NewContext. Primarily for tests.
	GitOptions []git.Option
}

// Released summarizes one released workspace in a Result.
type Released struct {
	Name    string
	Version string
	TagName string
}

// Result reports what a run did.
type Result struct {
	RunID    string
	Branch   string
	Channel  string
	Released []Released
	Tags     []string
	DryRun   bool

	// PublishErrors holds one *publish.Error per failed publish plugin.
	// Publishing is best-effort: failures are recorded, not fatal.
	PublishErrors []error
}

// Releaser runs the release pipeline: discover workspaces, resolve versions
// from commit history, update manifests and changelogs, commit, tag, push,
// publish. Steps are strictly sequential; each builds on the previous one's
// git state.
type Releaser struct {
	opts     Options
	log      *slog.Logger
	notifier notify.Notifier
}

// New creates a Releaser.
func New(opts Options) (*Releaser, error) {
	if opts.RepoPath == "" {
		return nil, fmt.Errorf("shipwright: RepoPath is required")
	}

	r := &Releaser{
		opts:     opts,
		log:      opts.Logger,
		notifier: opts.Notifier,
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.notifier == nil {
		r.notifier = notify.NewLogNotifier(r.log)
	}
	return r, nil
}

// Run executes one release run.
func (r *Releaser) Run(ctx context.Context) (*Result, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	log := r.log.With("run_id", runID)

	result, err := r.run(ctx, runID, log)
	if err != nil {
		r.notify(ctx, notify.Event{
			Type:     notify.EventRunFailed,
			RunID:    runID,
			Message:  err.Error(),
			Severity: notify.SeverityError,
		})
	}
	return result, err
}

func (r *Releaser) run(ctx context.Context, runID string, log *slog.Logger) (*Result, error) {
	g, err := git.NewContext(r.opts.RepoPath, r.opts.GitOptions...)
	if err != nil {
		return nil, err
	}

	branch, err := g.CurrentBranch()
	if err != nil {
		return nil, err
	}
	channel := ReleaseChannel(branch)

	cfg := r.opts.Config
	if cfg == nil {
		cfg, err = config.Load(r.opts.RepoPath)
		if err != nil {
			return nil, err
		}
	}

	// Publisher configuration is validated up front: a bad plugin block must
	// abort the run before any git state is touched, not after the push.
	remote := g.TrackingRemote(branch)
	publishers := r.opts.Publishers
	if publishers == nil {
		remoteURL, _ := g.RemoteURL(remote)
		publishers, err = buildPublishers(cfg, remoteURL)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:   runID,
		Branch:  branch,
		Channel: channel,
		DryRun:  r.opts.DryRun,
	}

	log.Info("release run started", "branch", branch, "channel", channel, "dry_run", r.opts.DryRun)
	r.notify(ctx, notify.Event{
		Type:     notify.EventRunStarted,
		RunID:    runID,
		Branch:   branch,
		Message:  fmt.Sprintf("release run started on %s", branch),
		Severity: notify.SeverityInfo,
	})

	plugins := r.opts.Plugins
	if plugins == nil {
		plugins = workspace.DefaultPlugins()
	}
	projects, err := workspace.Discover(r.opts.RepoPath, workspace.Options{
		TagPrefix:   cfg.TagPrefix,
		Independent: cfg.Independent,
		Logger:      log,
	}, plugins...)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, ErrNoProject
	}

	resolver := &resolve.Resolver{
		Git:         g,
		Policy:      resolve.FeaturePolicy(cfg.FeatureBump),
		Independent: cfg.Independent,
		Logger:      log,
	}

	var releases []resolve.Release
	for _, project := range projects {
		resolved, err := resolver.Resolve(project)
		if err != nil {
			return nil, err
		}
		releases = append(releases, resolved...)
	}

	if len(releases) == 0 {
		log.Info("no releasable changes")
		r.notify(ctx, notify.Event{
			Type:     notify.EventNoRelease,
			RunID:    runID,
			Branch:   branch,
			Message:  "no releasable changes since last release",
			Severity: notify.SeverityInfo,
		})
		return result, nil
	}

	plat := platform.ResolveForBranch(g, branch)

	// Fingerprint the tree before rewriting anything so concurrent edits
	// can't leak into the release commit.
	generated := generatedPaths(releases)
	before, err := g.StatusFingerprint(generated...)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var pubReleases []publish.Release
	for i := range releases {
		rel := &releases[i]
		version := rel.Next.String()
		entry := changelog.Entry{
			Version: version,
			Date:    now,
			Groups:  groupCommits(rel.Commits),
		}

		if err := rel.Workspace.UpdateVersion(version); err != nil {
			return nil, err
		}
		if err := rel.Workspace.UpdateChangelog(entry, plat); err != nil {
			return nil, err
		}

		log.Info("workspace updated",
			"workspace", rel.Workspace.Name,
			"version", version,
			"tag", rel.TagName,
			"severity", rel.Severity.String(),
			"first_release", rel.FirstRelease,
		)

		pubReleases = append(pubReleases, publish.Release{
			Name:    rel.Workspace.Name,
			Version: version,
			TagName: rel.TagName,
			Path:    rel.Workspace.RelPath,
			Notes:   entry.Render(plat),
		})
		result.Released = append(result.Released, Released{
			Name:    rel.Workspace.Name,
			Version: version,
			TagName: rel.TagName,
		})
	}

	after, err := g.StatusFingerprint(generated...)
	if err != nil {
		return nil, err
	}
	if before != after {
		return nil, ErrWorkingTreeChanged
	}

	tags := uniqueTags(releases)
	result.Tags = tags

	if r.opts.DryRun {
		log.Info("dry run, discarding changes", "tags", tags)
		if err := g.DiscardChanges(); err != nil {
			return nil, err
		}
		return result, nil
	}

	// From here on the run mutates git state; errors return the partial
	// result so callers can see what had already shipped.
	if err := g.Stage(generated...); err != nil {
		return result, err
	}
	if err := g.Commit(releaseCommitMessage(tags)); err != nil {
		return result, err
	}
	for _, tag := range tags {
		if err := g.TagAnnotated(tag, "Release "+tag); err != nil {
			return result, err
		}
	}

	if err := g.Push(remote, branch, true); err != nil {
		return result, err
	}
	log.Info("pushed release", "remote", remote, "tags", tags)

	set := publish.Set{
		Releases: pubReleases,
		Channel:  channel,
		RepoPath: r.opts.RepoPath,
	}
	for _, p := range publishers {
		if err := p.Publish(ctx, set); err != nil {
			perr := &publish.Error{Plugin: p.Name(), Err: err}
			result.PublishErrors = append(result.PublishErrors, perr)
			log.Error("publish plugin failed", "plugin", p.Name(), "error", err)
			r.notify(ctx, notify.Event{
				Type:     notify.EventPublishFailed,
				RunID:    runID,
				Branch:   branch,
				Tags:     tags,
				Message:  perr.Error(),
				Severity: notify.SeverityError,
			})
		}
	}

	r.notify(ctx, notify.Event{
		Type:     notify.EventReleased,
		RunID:    runID,
		Branch:   branch,
		Tags:     tags,
		Message:  fmt.Sprintf("released %d workspace(s)", len(result.Released)),
		Severity: notify.SeverityInfo,
		Metadata: map[string]any{"channel": channel},
	})
	return result, nil
}

func (r *Releaser) notify(ctx context.Context, ev notify.Event) {
	ev.Timestamp = time.Now()
	if err := r.notifier.Notify(ctx, ev); err != nil {
		r.log.Warn("notification failed", "error", err, "event_type", ev.Type)
	}
}

// ReleaseChannel derives the publish channel from the branch a run releases
// from. The default branches release to "stable"; any other branch releases
// to a channel named after itself.
func ReleaseChannel(branch string) string {
	switch branch {
	case "main", "master":
		return "stable"
	}
	return branch
}

// groupCommits buckets commits into changelog groups by classification.
func groupCommits(commits []git.Commit) []changelog.Group {
	groups := []changelog.Group{
		{Title: changelog.GroupBreaking},
		{Title: changelog.GroupFeatures},
		{Title: changelog.GroupFixes},
	}

	for _, c := range commits {
		item := changelog.Item{Subject: c.Subject, Hash: c.Hash}
		switch resolve.Classify(c.Subject) {
		case resolve.SeverityMajor:
			groups[0].Items = append(groups[0].Items, item)
		case resolve.SeverityMinor:
			groups[1].Items = append(groups[1].Items, item)
		default:
			groups[2].Items = append(groups[2].Items, item)
		}
	}
	return groups
}

// generatedPaths lists every file the run rewrites, relative to the
// repository root. These are the only paths a release commit may contain.
func generatedPaths(releases []resolve.Release) []string {
	var paths []string
	for _, rel := range releases {
		paths = append(paths, rel.Workspace.ManifestRelPath(), rel.Workspace.ChangelogRelPath())
	}
	return paths
}

// uniqueTags preserves resolution order. Lock-step runs share one tag across
// every workspace; it is created once.
func uniqueTags(releases []resolve.Release) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, rel := range releases {
		if !seen[rel.TagName] {
			seen[rel.TagName] = true
			tags = append(tags, rel.TagName)
		}
	}
	return tags
}

func releaseCommitMessage(tags []string) string {
	return "chore(release): " + strings.Join(tags, ", ") + " [skip ci]"
}
