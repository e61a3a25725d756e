// Package changelog renders release sections and merges them into existing
// changelog content. Merging is idempotent: re-applying an entry for a
// version already present leaves the content unchanged.
package changelog

import (
	"strings"
	"time"

	"github.com/randalmurphal/shipwright/platform"
)

// Group titles, in render order.
const (
	GroupBreaking = "Breaking Changes"
	GroupFeatures = "Features"
	GroupFixes    = "Bug Fixes"
)

// Item is one commit line within a group.
type Item struct {
	Subject string
	Hash    string
}

// Group is an ordered list of items under a classification heading.
type Group struct {
	Title string
	Items []Item
}

// Entry is one release section: a version, its date, and the commits that
// shipped in it grouped by classification. Entries are derived values; they
// are never persisted outside the changelog file they are merged into.
type Entry struct {
	Version string
	Date    time.Time
	Groups  []Group
}

// title is the document heading a fresh changelog starts with.
const title = "# Changelog"

// Render produces the markdown section for the entry. Commit references are
// rendered through the platform's link capability.
func (e Entry) Render(p platform.Platform) string {
	var b strings.Builder

	b.WriteString("## ")
	b.WriteString(e.Version)
	b.WriteString(" (")
	b.WriteString(e.Date.Format("2006-01-02"))
	b.WriteString(")\n")

	for _, g := range e.Groups {
		if len(g.Items) == 0 {
			continue
		}
		b.WriteString("\n### ")
		b.WriteString(g.Title)
		b.WriteString("\n\n")
		for _, item := range g.Items {
			b.WriteString("- ")
			b.WriteString(item.Subject)
			b.WriteString(" (")
			b.WriteString(p.CommitLink(item.Hash))
			b.WriteString(")\n")
		}
	}

	return b.String()
}

// Merge combines existing changelog content with a new entry. The newest
// section lands directly under the document title; older sections keep their
// order. When the existing content already has a section for the entry's
// version the content is returned unchanged.
func Merge(existing string, e Entry, p platform.Platform) string {
	if hasVersion(existing, e.Version) {
		return existing
	}

	section := e.Render(p)

	if strings.TrimSpace(existing) == "" {
		return title + "\n\n" + section
	}

	// Insert before the first existing release section. A hand-authored
	// changelog may start directly with a section, no document title.
	if strings.HasPrefix(existing, "## ") {
		return section + "\n" + existing
	}
	if idx := strings.Index(existing, "\n## "); idx >= 0 {
		head := strings.TrimRight(existing[:idx], "\n")
		tail := existing[idx+1:]
		return head + "\n\n" + section + "\n" + tail
	}

	// No release sections yet; append below whatever header content exists.
	return strings.TrimRight(existing, "\n") + "\n\n" + section
}

// hasVersion reports whether the content already contains a release section
// heading for the version.
func hasVersion(content, version string) bool {
	heading := "## " + version + " ("
	if strings.HasPrefix(content, heading) {
		return true
	}
	return strings.Contains(content, "\n"+heading)
}
