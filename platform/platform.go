// Package platform classifies the hosting provider behind a git remote and
// exposes its single capability the release pipeline cares about: rendering a
// commit reference as a changelog-appropriate link.
package platform

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/shipwright/git"
)

// Platform renders commit references for changelog entries.
type Platform interface {
	// Name identifies the platform ("github", "gitlab", "generic").
	Name() string

	// CommitLink renders a commit reference. Hosted platforms return a
	// markdown link; the generic platform returns the short hash as text.
	CommitLink(hash string) string
}

// Hosted is a link-capable platform backed by a browsable web UI.
type Hosted struct {
	name    string
	baseURL string // https://host/owner/repo, no trailing slash
	segment string // URL path segment for commits ("commit")
}

// Name implements Platform.
func (h *Hosted) Name() string { return h.name }

// CommitLink implements Platform.
func (h *Hosted) CommitLink(hash string) string {
	short := hash
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("[%s](%s/%s/%s)", short, h.baseURL, h.segment, hash)
}

// Generic is the fallback for remotes with no known web UI.
type Generic struct{}

// Name implements Platform.
func (Generic) Name() string { return "generic" }

// CommitLink implements Platform.
func (Generic) CommitLink(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Detect classifies a remote URL. Unknown hosts get the generic platform;
// detection never fails.
func Detect(remoteURL string) Platform {
	base, ok := browseURL(remoteURL)
	if !ok {
		return Generic{}
	}

	lower := strings.ToLower(remoteURL)
	switch {
	case strings.Contains(lower, "github"):
		return &Hosted{name: "github", baseURL: base, segment: "commit"}
	case strings.Contains(lower, "gitlab"):
		// GitLab nests commits under /-/commit.
		return &Hosted{name: "gitlab", baseURL: base, segment: "-/commit"}
	default:
		return Generic{}
	}
}

// ResolveForBranch determines the branch's tracking remote, reads its URL,
// and classifies it. A repository with no usable remote URL still resolves,
// to the generic platform.
func ResolveForBranch(g *git.Context, branch string) Platform {
	remote := g.TrackingRemote(branch)
	url, err := g.RemoteURL(remote)
	if err != nil {
		return Generic{}
	}
	return Detect(url)
}

// browseURL converts a remote URL to a browsable https base URL.
// Handles SSH (git@host:owner/repo.git) and HTTP(S) forms.
func browseURL(remoteURL string) (string, bool) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	// SSH form: git@host:owner/repo
	if strings.HasPrefix(remoteURL, "git@") {
		rest := strings.TrimPrefix(remoteURL, "git@")
		host, path, ok := strings.Cut(rest, ":")
		if !ok || host == "" || path == "" {
			return "", false
		}
		return "https://" + host + "/" + path, true
	}

	// ssh:// form: ssh://git@host/owner/repo
	if strings.HasPrefix(remoteURL, "ssh://") {
		rest := strings.TrimPrefix(remoteURL, "ssh://")
		rest = strings.TrimPrefix(rest, "git@")
		if rest == "" {
			return "", false
		}
		return "https://" + rest, true
	}

	if strings.HasPrefix(remoteURL, "https://") || strings.HasPrefix(remoteURL, "http://") {
		return remoteURL, true
	}

	return "", false
}
