package workspace

import "errors"

// Configuration errors. All of these are fatal to a release run.
var (
	// ErrMissingName indicates a manifest without a package name. Identity
	// is mandatory for every workspace, private or not.
	ErrMissingName = errors.New("manifest has no package name")

	// ErrNoVersionField indicates an update was requested on a manifest
	// that carries no version field to rewrite.
	ErrNoVersionField = errors.New("manifest has no version field")

	// ErrDuplicateTagPrefix indicates two workspaces resolved to the same
	// tag prefix under independent versioning.
	ErrDuplicateTagPrefix = errors.New("duplicate workspace tag prefix")
)

// ConfigurationError wraps a fatal workspace configuration problem with the
// manifest path it was found in.
type ConfigurationError struct {
	Path string // Manifest path
	Err  error
}

func (e *ConfigurationError) Error() string {
	return "workspace " + e.Path + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
