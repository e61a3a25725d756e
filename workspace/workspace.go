package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/randalmurphal/shipwright/changelog"
	"github.com/randalmurphal/shipwright/platform"
)

// ChangelogFile is the per-workspace changelog filename.
const ChangelogFile = "CHANGELOG.md"

// Workspace is one release unit candidate: a directory bound to a manifest
// file. Constructed only by discovery; mutated only through UpdateVersion
// and UpdateChangelog.
type Workspace struct {
	Name      string // Package name, the workspace identity (never empty)
	Version   string // Current manifest version
	Private   bool   // Private workspaces are never released
	Dir       string // Absolute directory
	RelPath   string // Path relative to the repository root ("" for the root)
	TagPrefix string // Effective version-tag prefix for this workspace
	Manifest  string // Manifest filename (build-system convention)
}

// ManifestPath returns the absolute manifest path.
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.Dir, w.Manifest)
}

// ManifestRelPath returns the manifest path relative to the repository root.
func (w *Workspace) ManifestRelPath() string {
	return filepath.Join(w.RelPath, w.Manifest)
}

// ChangelogPath returns the absolute changelog path.
func (w *Workspace) ChangelogPath() string {
	return filepath.Join(w.Dir, ChangelogFile)
}

// ChangelogRelPath returns the changelog path relative to the repository root.
func (w *Workspace) ChangelogRelPath() string {
	return filepath.Join(w.RelPath, ChangelogFile)
}

// UpdateVersion rewrites only the version field of the manifest, preserving
// the exact surrounding formatting, then updates the in-memory version.
func (w *Workspace) UpdateVersion(newVersion string) error {
	path := w.ManifestPath()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	updated, err := rewriteVersion(data, newVersion)
	if err != nil {
		return &ConfigurationError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	w.Version = newVersion
	return nil
}

// UpdateChangelog merges the entry into the workspace changelog, creating the
// file when absent. The merge is idempotent keyed by the entry version.
func (w *Workspace) UpdateChangelog(entry changelog.Entry, p platform.Platform) error {
	path := w.ChangelogPath()

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read changelog: %w", err)
	}

	merged := changelog.Merge(string(existing), entry, p)

	if err := os.WriteFile(path, []byte(merged), 0o644); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	return nil
}

// Project is a distinguished root workspace that owns an ordered collection
// of child workspaces. Children hold no reference back to the project.
type Project struct {
	Root     Workspace
	Children []*Workspace
	Build    string // Name of the build-system plugin that discovered it
}

// Units returns the project's release units: each child individually when
// children exist, otherwise the root itself.
func (p *Project) Units() []*Workspace {
	if len(p.Children) > 0 {
		return p.Children
	}
	return []*Workspace{&p.Root}
}

// AllWorkspaces returns the root plus every child.
func (p *Project) AllWorkspaces() []*Workspace {
	all := make([]*Workspace, 0, len(p.Children)+1)
	all = append(all, &p.Root)
	all = append(all, p.Children...)
	return all
}
