package publish

import "testing"

func TestSplitRepoPath(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{name: "https", url: "https://github.com/acme/widgets.git", owner: "acme", repo: "widgets"},
		{name: "https no suffix", url: "https://github.com/acme/widgets", owner: "acme", repo: "widgets"},
		{name: "ssh", url: "git@gitlab.com:acme/widgets.git", owner: "acme", repo: "widgets"},
		{name: "nested namespace", url: "git@gitlab.com:acme/platform/widgets.git", owner: "acme/platform", repo: "widgets"},
		{name: "self hosted http", url: "http://git.internal/team/tool", owner: "team", repo: "tool"},
		{name: "no path", url: "https://github.com", wantErr: true},
		{name: "bare ssh host", url: "git@github.com", wantErr: true},
		{name: "file path", url: "/srv/git/repo.git", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := SplitRepoPath(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SplitRepoPath(%q) = %q/%q, want error", tt.url, owner, repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitRepoPath(%q): %v", tt.url, err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("SplitRepoPath(%q) = %q/%q, want %q/%q", tt.url, owner, repo, tt.owner, tt.repo)
			}
		})
	}
}
