package changelog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/randalmurphal/shipwright/changelog"
	"github.com/randalmurphal/shipwright/platform"
)

func entryFixture() changelog.Entry {
	return changelog.Entry{
		Version: "1.3.0",
		Date:    time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		Groups: []changelog.Group{
			{Title: changelog.GroupFeatures, Items: []changelog.Item{
				{Subject: "feat: add export", Hash: "abc1234def5678"},
			}},
			{Title: changelog.GroupFixes, Items: []changelog.Item{
				{Subject: "fix: close file handle", Hash: "def5678abc1234"},
			}},
		},
	}
}

func TestRender(t *testing.T) {
	t.Run("hosted platform renders links", func(t *testing.T) {
		p := platform.Detect("https://github.com/acme/widgets.git")
		out := entryFixture().Render(p)

		if !strings.Contains(out, "## 1.3.0 (2026-08-23)") {
			t.Errorf("missing version heading:\n%s", out)
		}
		if !strings.Contains(out, "### Features") {
			t.Errorf("missing Features group:\n%s", out)
		}
		if !strings.Contains(out, "[abc1234](https://github.com/acme/widgets/commit/abc1234def5678)") {
			t.Errorf("missing commit link:\n%s", out)
		}
	})

	t.Run("generic platform renders plain hashes", func(t *testing.T) {
		out := entryFixture().Render(platform.Generic{})

		if strings.Contains(out, "](") {
			t.Errorf("generic platform produced a link:\n%s", out)
		}
		if !strings.Contains(out, "(abc1234)") {
			t.Errorf("missing short hash:\n%s", out)
		}
	})

	t.Run("empty groups are skipped", func(t *testing.T) {
		e := entryFixture()
		e.Groups = append([]changelog.Group{{Title: changelog.GroupBreaking}}, e.Groups...)

		out := e.Render(platform.Generic{})
		if strings.Contains(out, "Breaking Changes") {
			t.Errorf("empty group rendered:\n%s", out)
		}
	})

	t.Run("chronological item order preserved", func(t *testing.T) {
		out := entryFixture().Render(platform.Generic{})
		if strings.Index(out, "Features") > strings.Index(out, "Bug Fixes") {
			t.Errorf("group order wrong:\n%s", out)
		}
	})
}

func TestMerge(t *testing.T) {
	p := platform.Generic{}

	t.Run("empty changelog gets title", func(t *testing.T) {
		out := changelog.Merge("", entryFixture(), p)
		if !strings.HasPrefix(out, "# Changelog\n") {
			t.Errorf("missing title:\n%s", out)
		}
		if !strings.Contains(out, "## 1.3.0 (2026-08-23)") {
			t.Errorf("missing section:\n%s", out)
		}
	})

	t.Run("new section lands above older ones", func(t *testing.T) {
		existing := "# Changelog\n\n## 1.2.0 (2026-07-01)\n\n### Bug Fixes\n\n- fix: old (aaaaaaa)\n"
		out := changelog.Merge(existing, entryFixture(), p)

		newIdx := strings.Index(out, "## 1.3.0")
		oldIdx := strings.Index(out, "## 1.2.0")
		if newIdx < 0 || oldIdx < 0 {
			t.Fatalf("missing section:\n%s", out)
		}
		if newIdx > oldIdx {
			t.Errorf("new section below old one:\n%s", out)
		}
	})

	t.Run("untitled changelog keeps newest first", func(t *testing.T) {
		existing := "## 1.2.0 (2026-07-01)\n\n### Bug Fixes\n\n- fix: old (aaaaaaa)\n"
		out := changelog.Merge(existing, entryFixture(), p)

		newIdx := strings.Index(out, "## 1.3.0")
		oldIdx := strings.Index(out, "## 1.2.0")
		if newIdx < 0 || oldIdx < 0 {
			t.Fatalf("missing section:\n%s", out)
		}
		if newIdx > oldIdx {
			t.Errorf("new section below old one in untitled changelog:\n%s", out)
		}
	})

	t.Run("idempotent keyed by version", func(t *testing.T) {
		once := changelog.Merge("", entryFixture(), p)
		twice := changelog.Merge(once, entryFixture(), p)
		if once != twice {
			t.Errorf("merge not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
		}
	})

	t.Run("prefix version does not collide", func(t *testing.T) {
		existing := "# Changelog\n\n## 1.3.0-rc.1 (2026-08-01)\n"
		out := changelog.Merge(existing, entryFixture(), p)
		if !strings.Contains(out, "## 1.3.0 (2026-08-23)") {
			t.Errorf("1.3.0 wrongly treated as already present:\n%s", out)
		}
	})
}
