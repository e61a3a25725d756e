// Package workspace models the release units of a repository: a Project
// (the root manifest) owning an ordered set of child Workspaces, each bound
// to a manifest file in a specific build-system format.
//
// Build-system plugins share one contract: a fixed manifest filename, JSON
// content with name/version/private/workspaces fields, and a surgical
// version rewrite that preserves the manifest's exact formatting. Discovery
// runs every registered plugin; plugins are not mutually exclusive, and all
// applicable projects are collected.
//
// Ownership is one-directional: the Project owns its children, and children
// carry no reference back to the Project. Anything that needs project-level
// context receives it as an argument.
package workspace
