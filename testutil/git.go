// Package testutil provides git repository fixtures for tests: temporary
// repositories, commits, tags, bare remotes, and workspace manifest trees.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SetupTestRepo creates a temporary git repository with one initial commit.
// Returns the path to the repository. The repository is automatically
// cleaned up when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	if err := runGit(t, dir, "init", "-b", "main"); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	if err := runGit(t, dir, "config", "user.email", "test@test.com"); err != nil {
		t.Fatalf("git config email failed: %v", err)
	}
	if err := runGit(t, dir, "config", "user.name", "Test User"); err != nil {
		t.Fatalf("git config name failed: %v", err)
	}

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0o644); err != nil {
		t.Fatalf("failed to create README: %v", err)
	}

	if err := runGit(t, dir, "add", "."); err != nil {
		t.Fatalf("git add failed: %v", err)
	}
	if err := runGit(t, dir, "commit", "-m", "chore: initial commit"); err != nil {
		t.Fatalf("git commit failed: %v", err)
	}

	return dir
}

// SetupTestRepoWithFiles creates a test repo with the given files committed.
func SetupTestRepoWithFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := SetupTestRepo(t)
	WriteFiles(t, dir, files)

	if err := runGit(t, dir, "add", "."); err != nil {
		t.Fatalf("git add failed: %v", err)
	}
	if err := runGit(t, dir, "commit", "-m", "chore: add test files"); err != nil {
		t.Fatalf("git commit failed: %v", err)
	}

	return dir
}

// WriteFiles writes files into the repository without committing them.
func WriteFiles(t *testing.T, repoDir string, files map[string]string) {
	t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(repoDir, path)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
}

// CommitFile creates or updates a file and commits it with the message.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	WriteFiles(t, repoDir, map[string]string{path: content})

	if err := runGit(t, repoDir, "add", path); err != nil {
		t.Fatalf("git add %s failed: %v", path, err)
	}
	if err := runGit(t, repoDir, "commit", "-m", message); err != nil {
		t.Fatalf("git commit failed: %v", err)
	}
}

// CommitEmpty creates an empty commit with the message. Handy for building
// history without touching files.
func CommitEmpty(t *testing.T, repoDir, message string) {
	t.Helper()

	if err := runGit(t, repoDir, "commit", "--allow-empty", "-m", message); err != nil {
		t.Fatalf("git commit failed: %v", err)
	}
}

// Tag creates a lightweight tag at HEAD.
func Tag(t *testing.T, repoDir, tag string) {
	t.Helper()

	if err := runGit(t, repoDir, "tag", tag); err != nil {
		t.Fatalf("git tag %s failed: %v", tag, err)
	}
}

// TagAnnotated creates an annotated tag at HEAD.
func TagAnnotated(t *testing.T, repoDir, tag, message string) {
	t.Helper()

	if err := runGit(t, repoDir, "tag", "-a", tag, "-m", message); err != nil {
		t.Fatalf("git tag -a %s failed: %v", tag, err)
	}
}

// SetupBareRemote creates a bare repository and wires it as the "origin"
// remote of repoDir, with the current branch pushed and tracking configured.
// Returns the path to the bare repository.
func SetupBareRemote(t *testing.T, repoDir string) string {
	t.Helper()

	bare := t.TempDir()
	if err := runGit(t, bare, "init", "--bare"); err != nil {
		t.Fatalf("git init --bare failed: %v", err)
	}

	if err := runGit(t, repoDir, "remote", "add", "origin", bare); err != nil {
		t.Fatalf("git remote add failed: %v", err)
	}
	if err := runGit(t, repoDir, "push", "-u", "origin", "HEAD"); err != nil {
		t.Fatalf("git push -u failed: %v", err)
	}

	return bare
}

// AddRemote adds a remote with the given URL without pushing.
func AddRemote(t *testing.T, repoDir, name, url string) {
	t.Helper()

	if err := runGit(t, repoDir, "remote", "add", name, url); err != nil {
		t.Fatalf("git remote add %s failed: %v", name, err)
	}
}

// GetHeadSHA returns the current HEAD SHA.
func GetHeadSHA(t *testing.T, repoDir string) string {
	t.Helper()

	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoDir

	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("git rev-parse HEAD failed: %v", err)
	}

	sha := string(output)
	if len(sha) > 0 && sha[len(sha)-1] == '\n' {
		sha = sha[:len(sha)-1]
	}

	return sha
}

// ListTags returns all tag names in the repository.
func ListTags(t *testing.T, repoDir string) []string {
	t.Helper()

	cmd := exec.Command("git", "tag", "--list")
	cmd.Dir = repoDir

	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("git tag --list failed: %v", err)
	}

	var tags []string
	for _, line := range splitLines(string(output)) {
		if line != "" {
			tags = append(tags, line)
		}
	}
	return tags
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// runGit runs a git command in the specified directory.
func runGit(t *testing.T, dir string, args ...string) error {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("git %v output: %s", args, output)
		return err
	}

	return nil
}
