package publish

import (
	"fmt"
	"strings"
)

// SplitRepoPath extracts the owner/namespace and repository name from a git
// remote URL, handling both SSH and HTTP(S) forms.
func SplitRepoPath(remoteURL string) (owner, repo string, err error) {
	remoteURL = strings.TrimSpace(remoteURL)

	// SSH URLs: git@host:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.SplitN(remoteURL, ":", 2)
		if len(parts) != 2 {
			return "", "", fmt.Errorf("invalid SSH URL format: %q", remoteURL)
		}
		return splitPath(parts[1])
	}

	// HTTP(S) URLs: https://host/owner/repo.git
	trimmed := strings.TrimPrefix(remoteURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	if trimmed == remoteURL {
		return "", "", fmt.Errorf("unsupported remote URL: %q", remoteURL)
	}

	_, path, ok := strings.Cut(trimmed, "/")
	if !ok {
		return "", "", fmt.Errorf("invalid URL format: %q", remoteURL)
	}
	return splitPath(path)
}

func splitPath(path string) (string, string, error) {
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", fmt.Errorf("invalid repository path: %q", path)
	}
	return path[:idx], path[idx+1:], nil
}
