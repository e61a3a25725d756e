// Package publish defines the publish-plugin contract. Plugins receive the
// resolved release set after the release commit and tags are pushed; a
// failing plugin is recorded and skipped over, never rolled back into git
// state. Git state is authoritative, publishing is best-effort and
// independently retryable.
package publish

import "context"

// Release is one released unit as seen by publishers.
type Release struct {
	Name    string // Package name
	Version string // New version, without tag prefix
	TagName string // Git tag created for this release
	Path    string // Workspace path relative to the repository root ("" for root)
	Notes   string // Rendered changelog section for this release
}

// Set is the resolved release set handed to each publisher.
type Set struct {
	Releases []Release

	// Channel is the release channel derived from the branch the run
	// released from ("stable" for the default branch).
	Channel string

	// RepoPath is the absolute repository root.
	RepoPath string
}

// Publisher dispatches one publish action for a release set.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, set Set) error
}

// Error wraps a publisher failure with the plugin that produced it.
type Error struct {
	Plugin string
	Err    error
}

func (e *Error) Error() string {
	return "publish " + e.Plugin + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
