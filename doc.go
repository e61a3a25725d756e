// Package shipwright automates semantic releases for single- and
// multi-workspace repositories.
//
// The package is organized into subpackages by domain:
//
//   - git: Git command execution, history reading, tags, fingerprints
//   - workspace: Project and workspace discovery via build-system plugins
//   - resolve: Commit classification and next-version resolution
//   - changelog: Changelog section rendering and idempotent merging
//   - platform: Hosting-platform detection and commit link rendering
//   - config: Run configuration (.shipwright.yaml)
//   - publish: Publish-plugin contract plus s3, github, gitlab plugins
//   - notify: Notification services (Slack, webhook, log)
//   - testutil: Test utilities and fixtures
//
// # Quick Start
//
//	import "github.com/randalmurphal/shipwright"
//
//	releaser, _ := shipwright.New(shipwright.Options{
//	    RepoPath: "/path/to/repo",
//	})
//	result, err := releaser.Run(ctx)
//
// A run discovers the project's workspaces, resolves the next version from
// the commits since the last release tag, updates manifests and changelogs,
// commits, tags, pushes, and then hands the release set to the configured
// publish plugins. See individual package documentation for detailed usage.
package shipwright
