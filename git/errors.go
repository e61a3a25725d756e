package git

import "errors"

// Git operation errors.
var (
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNothingToCommit indicates there are no staged changes to commit.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrTagExists indicates the tag already exists.
	ErrTagExists = errors.New("tag already exists")

	// ErrNoBranch indicates the current branch could not be determined,
	// typically a detached HEAD outside CI.
	ErrNoBranch = errors.New("current branch could not be determined")
)

// Error wraps a git command failure with context. A non-zero exit from the
// git process is always fatal to the release run; the captured output is
// preserved for diagnostics.
type Error struct {
	Op     string // Operation that failed (e.g., "commit", "push")
	Cmd    string // Git command that was run
	Output string // Combined stdout/stderr output
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return e.Op + ": " + e.Output
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
