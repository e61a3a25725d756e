package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Plugin is one build-system variant. Discover probes a repository root and
// returns (project, true) when the plugin applies, or (nil, false) when the
// repository carries no manifest for this build system. Not applying is not
// an error; other plugins may still match.
type Plugin interface {
	Name() string
	Discover(root string, opts Options) (*Project, bool, error)
}

// Options governs tag-prefix derivation during discovery.
type Options struct {
	// TagPrefix is the configured version tag prefix (default "v").
	TagPrefix string

	// Independent selects per-workspace versioning. Each workspace then
	// gets the prefix TagPrefix + name + "@"; otherwise all workspaces
	// share TagPrefix.
	Independent bool

	// Logger receives discovery warnings. Defaults to slog.Default.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) prefixFor(name string) string {
	if o.Independent {
		return o.TagPrefix + name + "@"
	}
	return o.TagPrefix
}

// DefaultPlugins returns the registered build-system plugins, in probe order.
func DefaultPlugins() []Plugin {
	return []Plugin{NodeJS(), Gradle()}
}

// Discover runs every plugin against the repository root and collects all
// applicable projects. Plugins are not mutually exclusive.
func Discover(root string, opts Options, plugins ...Plugin) ([]*Project, error) {
	if len(plugins) == 0 {
		plugins = DefaultPlugins()
	}

	var projects []*Project
	for _, p := range plugins {
		project, ok, err := p.Discover(root, opts)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// buildSystem is the shared plugin implementation: every supported build
// system stores a JSON manifest under its own filename convention.
type buildSystem struct {
	name         string
	manifestFile string
}

func (b *buildSystem) Name() string { return b.name }

// Discover implements Plugin. Absence of the root manifest means the plugin
// does not apply. A present-but-malformed root manifest is a fatal error:
// loading it is required to proceed.
func (b *buildSystem) Discover(root string, opts Options) (*Project, bool, error) {
	rootManifest := filepath.Join(root, b.manifestFile)

	data, err := os.ReadFile(rootManifest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", rootManifest, err)
	}

	m, err := parseManifest(data)
	if err != nil {
		return nil, false, &ConfigurationError{Path: rootManifest, Err: err}
	}
	if m.Name == "" {
		return nil, false, &ConfigurationError{Path: rootManifest, Err: ErrMissingName}
	}

	project := &Project{
		Root: Workspace{
			Name:      m.Name,
			Version:   m.Version,
			Private:   m.Private,
			Dir:       root,
			RelPath:   "",
			TagPrefix: opts.prefixFor(m.Name),
			Manifest:  b.manifestFile,
		},
		Build: b.name,
	}

	children, err := b.discoverChildren(root, m.Workspaces, opts)
	if err != nil {
		return nil, false, err
	}
	project.Children = children

	if opts.Independent {
		if err := validatePrefixes(project); err != nil {
			return nil, false, err
		}
	}

	return project, true, nil
}

// discoverChildren expands the workspaces globs and loads each candidate
// manifest. Candidate loads are independent and read-only, so they are
// issued concurrently and joined.
func (b *buildSystem) discoverChildren(root string, globs []string, opts Options) ([]*Workspace, error) {
	log := opts.logger()

	var candidates []string
	for _, glob := range globs {
		matches, err := filepath.Glob(filepath.Join(root, glob))
		if err != nil {
			return nil, fmt.Errorf("expand workspaces glob %q: %w", glob, err)
		}
		candidates = append(candidates, matches...)
	}
	sort.Strings(candidates)

	children := make([]*Workspace, len(candidates))

	var g errgroup.Group
	for i, dir := range candidates {
		i, dir := i, dir
		g.Go(func() error {
			ws, err := b.loadChild(root, dir, opts, log)
			if err != nil {
				return err
			}
			children[i] = ws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Compact: excluded candidates left nil slots.
	out := children[:0]
	for _, ws := range children {
		if ws != nil {
			out = append(out, ws)
		}
	}
	return out, nil
}

// loadChild loads one candidate workspace. A missing or malformed child
// manifest excludes the candidate with a warning; a private one is excluded
// silently; a manifest with no name is fatal, since identity is mandatory
// independent of privacy.
func (b *buildSystem) loadChild(root, dir string, opts Options, log *slog.Logger) (*Workspace, error) {
	manifestPath := filepath.Join(dir, b.manifestFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Warn("excluding workspace candidate: manifest not loadable",
			"path", manifestPath, "error", err)
		return nil, nil
	}

	m, err := parseManifest(data)
	if err != nil {
		log.Warn("excluding workspace candidate: manifest malformed",
			"path", manifestPath, "error", err)
		return nil, nil
	}

	if m.Name == "" {
		return nil, &ConfigurationError{Path: manifestPath, Err: ErrMissingName}
	}

	if m.Private {
		log.Debug("excluding private workspace", "path", manifestPath, "name", m.Name)
		return nil, nil
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, fmt.Errorf("relativize %s: %w", dir, err)
	}

	return &Workspace{
		Name:      m.Name,
		Version:   m.Version,
		Private:   m.Private,
		Dir:       dir,
		RelPath:   rel,
		TagPrefix: opts.prefixFor(m.Name),
		Manifest:  b.manifestFile,
	}, nil
}

// validatePrefixes enforces the independent-mode invariant: every
// workspace's effective tag prefix must be unique across the project.
func validatePrefixes(p *Project) error {
	seen := make(map[string]string)
	for _, ws := range p.Units() {
		if other, dup := seen[ws.TagPrefix]; dup {
			return &ConfigurationError{
				Path: ws.ManifestPath(),
				Err:  fmt.Errorf("%w: %q shared by %s and %s", ErrDuplicateTagPrefix, ws.TagPrefix, other, ws.Name),
			}
		}
		seen[ws.TagPrefix] = ws.Name
	}
	return nil
}

// NodeJS is the node build-system plugin: package.json manifests.
func NodeJS() Plugin {
	return &buildSystem{name: "nodejs", manifestFile: "package.json"}
}

// Gradle is the gradle build-system plugin. The manifest filename carries the
// .gradle suffix but the content is JSON, matching the format the release
// tooling has always written.
func Gradle() Plugin {
	return &buildSystem{name: "gradle", manifestFile: "package.gradle"}
}
