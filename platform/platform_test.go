package platform_test

import (
	"testing"

	"github.com/randalmurphal/shipwright/git"
	"github.com/randalmurphal/shipwright/platform"
	"github.com/randalmurphal/shipwright/testutil"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		remoteURL string
		platform  string
		link      string
	}{
		{
			name:      "github https",
			remoteURL: "https://github.com/acme/widgets.git",
			platform:  "github",
			link:      "[abc1234](https://github.com/acme/widgets/commit/abc1234def)",
		},
		{
			name:      "github ssh",
			remoteURL: "git@github.com:acme/widgets.git",
			platform:  "github",
			link:      "[abc1234](https://github.com/acme/widgets/commit/abc1234def)",
		},
		{
			name:      "gitlab self-hosted",
			remoteURL: "git@gitlab.internal.acme.io:platform/widgets.git",
			platform:  "gitlab",
			link:      "[abc1234](https://gitlab.internal.acme.io/platform/widgets/-/commit/abc1234def)",
		},
		{
			name:      "unknown host",
			remoteURL: "https://git.example.org/acme/widgets.git",
			platform:  "generic",
			link:      "abc1234",
		},
		{
			name:      "local path remote",
			remoteURL: "/srv/git/widgets.git",
			platform:  "generic",
			link:      "abc1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := platform.Detect(tt.remoteURL)
			if p.Name() != tt.platform {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.platform)
			}
			if got := p.CommitLink("abc1234def"); got != tt.link {
				t.Errorf("CommitLink = %q, want %q", got, tt.link)
			}
		})
	}
}

func TestResolveForBranch(t *testing.T) {
	t.Run("no remote resolves to generic", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)
		g, _ := git.NewContext(dir)

		p := platform.ResolveForBranch(g, "main")
		if p.Name() != "generic" {
			t.Errorf("Name() = %q, want generic", p.Name())
		}
	})

	t.Run("hosted remote", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)
		testutil.AddRemote(t, dir, "origin", "git@github.com:acme/widgets.git")
		g, _ := git.NewContext(dir)

		p := platform.ResolveForBranch(g, "main")
		if p.Name() != "github" {
			t.Errorf("Name() = %q, want github", p.Name())
		}
	})
}
