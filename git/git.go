package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Branch name environment overrides, checked in order. CI systems commonly
// check out a detached HEAD, so the symbolic-ref lookup alone is not enough.
var branchEnvVars = []string{"GITHUB_REF_NAME", "CI_COMMIT_BRANCH"}

// Context manages git operations for a repository.
type Context struct {
	repoPath string        // Path to the repository root
	runner   CommandRunner // Command runner (defaults to ExecRunner)
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a new git context for the repository.
// It validates that the path is a git repository and applies any options.
func NewContext(repoPath string, opts ...Option) (*Context, error) {
	// Resolve to absolute path
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	// Verify it's a git repository
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = absPath
	if err := cmd.Run(); err != nil {
		return nil, ErrNotGitRepo
	}

	g := &Context{
		repoPath: absPath,
		runner:   NewExecRunner(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// RepoPath returns the path to the repository root.
func (g *Context) RepoPath() string {
	return g.repoPath
}

// CurrentBranch returns the branch name the run operates on. A CI-provided
// environment override wins over the local symbolic-ref lookup, because CI
// checkouts are frequently detached.
func (g *Context) CurrentBranch() (string, error) {
	for _, env := range branchEnvVars {
		if branch := os.Getenv(env); branch != "" {
			return branch, nil
		}
	}

	branch, err := g.runGit("get current branch", "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", ErrNoBranch
	}
	return branch, nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *Context) HeadCommit() (string, error) {
	return g.runGit("get HEAD commit", "rev-parse", "HEAD")
}

// Stage adds files to the staging area.
func (g *Context) Stage(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	_, err := g.runGit("stage files", args...)
	return err
}

// Commit creates a commit with the given message.
// Returns ErrNothingToCommit if there are no staged changes.
func (g *Context) Commit(message string) error {
	_, err := g.runGit("commit", "commit", "-m", message)
	if err != nil {
		if strings.Contains(err.Error(), "nothing to commit") {
			return ErrNothingToCommit
		}
		return err
	}
	return nil
}

// TagAnnotated creates an annotated tag at HEAD.
func (g *Context) TagAnnotated(name, message string) error {
	_, err := g.runGit("tag", "tag", "-a", name, "-m", message)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return ErrTagExists
		}
		return err
	}
	return nil
}

// Push pushes the branch to the remote. When followTags is true, annotated
// tags reachable from the pushed ref are pushed in the same operation.
func (g *Context) Push(remote, branch string, followTags bool) error {
	args := []string{"push"}
	if followTags {
		args = append(args, "--follow-tags")
	}
	args = append(args, remote, branch)
	_, err := g.runGit("push", args...)
	return err
}

// TrackingRemote returns the remote the branch tracks, falling back to
// "origin" when no tracking configuration exists.
func (g *Context) TrackingRemote(branch string) string {
	remote, err := g.runGit("get tracking remote", "config", "branch."+branch+".remote")
	if err != nil || remote == "" {
		return "origin"
	}
	return remote
}

// RemoteURL returns the URL configured for the remote.
func (g *Context) RemoteURL(remote string) (string, error) {
	return g.runGit("get remote URL", "config", "--get", "remote."+remote+".url")
}

// Status returns the working tree status in porcelain format.
func (g *Context) Status() (string, error) {
	return g.runGit("status", "status", "--porcelain")
}

// IsClean returns true if the working tree has no uncommitted changes.
func (g *Context) IsClean() (bool, error) {
	status, err := g.Status()
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// DiscardChanges restores the working tree to HEAD: tracked modifications are
// checked out and untracked files removed. Used by dry runs to undo applied
// manifest and changelog edits.
func (g *Context) DiscardChanges() error {
	if _, err := g.runGit("discard changes", "checkout", "--", "."); err != nil {
		return err
	}
	_, err := g.runGit("clean working tree", "clean", "-fd")
	return err
}

// runGit executes a git command and returns stdout. Any failure is wrapped
// in *Error with the captured process output.
func (g *Context) runGit(op string, args ...string) (string, error) {
	out, err := g.runner.Run(g.repoPath, "git", args...)
	if err != nil {
		return "", &Error{
			Op:     op,
			Cmd:    "git " + strings.Join(args, " "),
			Output: strings.TrimSpace(out + "\n" + err.Error()),
			Err:    err,
		}
	}
	return out, nil
}
