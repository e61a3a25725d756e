// Package git provides the git process surface for release runs: history
// extraction, tag listing, branch detection, status fingerprinting, and the
// mutation operations (stage, commit, tag, push) the release pipeline needs.
//
// Core types:
//   - Context: git repository context bound to a working directory
//   - CommandRunner: interface for executing git commands (with mock for testing)
//   - Commit, Tag: immutable history records produced by Log and Tags
//
// History parsing uses a delimiter protocol: the requested log format embeds
// two freshly generated UUID sentinels (one between fields, one between
// records), so commit bodies containing newlines or any other content can
// never corrupt record boundaries.
//
// Example usage:
//
//	ctx, err := git.NewContext("/path/to/repo")
//	commits, err := ctx.Log("a1b2c3", "packages/api")
//	tags, err := ctx.Tags("v")
package git
