package shipwright

import "errors"

// Release run errors
var (
	// ErrNoProject indicates no build-system plugin recognized the repository.
	ErrNoProject = errors.New("no supported project manifest found")

	// ErrWorkingTreeChanged indicates unrelated working tree changes appeared
	// while the run was rewriting manifests and changelogs. Committing would
	// sweep those changes into the release commit, so the run aborts instead.
	ErrWorkingTreeChanged = errors.New("working tree changed during release")
)
