package git_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/randalmurphal/shipwright/git"
	"github.com/randalmurphal/shipwright/testutil"
)

func TestNewContext(t *testing.T) {
	t.Run("valid repo", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)

		ctx, err := git.NewContext(dir)
		if err != nil {
			t.Fatalf("NewContext: %v", err)
		}
		if ctx.RepoPath() != dir {
			t.Errorf("RepoPath = %q, want %q", ctx.RepoPath(), dir)
		}
	})

	t.Run("non-git directory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := git.NewContext(dir)
		if !errors.Is(err, git.ErrNotGitRepo) {
			t.Errorf("err = %v, want ErrNotGitRepo", err)
		}
	})
}

func TestCurrentBranch(t *testing.T) {
	t.Run("local symbolic ref", func(t *testing.T) {
		t.Setenv("GITHUB_REF_NAME", "")
		t.Setenv("CI_COMMIT_BRANCH", "")

		dir := testutil.SetupTestRepo(t)
		ctx, _ := git.NewContext(dir)

		branch, err := ctx.CurrentBranch()
		if err != nil {
			t.Fatalf("CurrentBranch: %v", err)
		}
		if branch != "main" {
			t.Errorf("branch = %q, want main", branch)
		}
	})

	t.Run("CI env override", func(t *testing.T) {
		t.Setenv("GITHUB_REF_NAME", "release-ci")

		dir := testutil.SetupTestRepo(t)
		ctx, _ := git.NewContext(dir)

		branch, err := ctx.CurrentBranch()
		if err != nil {
			t.Fatalf("CurrentBranch: %v", err)
		}
		if branch != "release-ci" {
			t.Errorf("branch = %q, want release-ci", branch)
		}
	})
}

func TestCommit(t *testing.T) {
	t.Run("stages and commits", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)
		testutil.WriteFiles(t, dir, map[string]string{"pkg.json": "{}\n"})

		ctx, _ := git.NewContext(dir)
		if err := ctx.Stage("pkg.json"); err != nil {
			t.Fatalf("Stage: %v", err)
		}
		if err := ctx.Commit("chore(release): publish"); err != nil {
			t.Fatalf("Commit: %v", err)
		}

		commits, _ := ctx.Log("", "")
		last := commits[len(commits)-1]
		if last.Subject != "chore(release): publish" {
			t.Errorf("Subject = %q", last.Subject)
		}
	})

	t.Run("nothing to commit", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)

		ctx, _ := git.NewContext(dir)
		err := ctx.Commit("chore(release): publish")
		if !errors.Is(err, git.ErrNothingToCommit) {
			t.Errorf("err = %v, want ErrNothingToCommit", err)
		}
	})
}

func TestTagAnnotated(t *testing.T) {
	dir := testutil.SetupTestRepo(t)
	ctx, _ := git.NewContext(dir)

	if err := ctx.TagAnnotated("v1.0.0", "release v1.0.0"); err != nil {
		t.Fatalf("TagAnnotated: %v", err)
	}

	err := ctx.TagAnnotated("v1.0.0", "release v1.0.0")
	if !errors.Is(err, git.ErrTagExists) {
		t.Errorf("err = %v, want ErrTagExists", err)
	}
}

func TestPush(t *testing.T) {
	dir := testutil.SetupTestRepo(t)
	bare := testutil.SetupBareRemote(t, dir)

	ctx, _ := git.NewContext(dir)
	testutil.CommitEmpty(t, dir, "feat: something")
	if err := ctx.TagAnnotated("v1.0.0", "release v1.0.0"); err != nil {
		t.Fatalf("TagAnnotated: %v", err)
	}

	if err := ctx.Push("origin", "main", true); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if tags := testutil.ListTags(t, bare); len(tags) != 1 || tags[0] != "v1.0.0" {
		t.Errorf("remote tags = %v, want [v1.0.0]", tags)
	}
}

func TestTrackingRemote(t *testing.T) {
	t.Run("configured tracking", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)
		testutil.SetupBareRemote(t, dir)

		ctx, _ := git.NewContext(dir)
		if remote := ctx.TrackingRemote("main"); remote != "origin" {
			t.Errorf("remote = %q, want origin", remote)
		}
	})

	t.Run("fallback to origin", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)

		ctx, _ := git.NewContext(dir)
		if remote := ctx.TrackingRemote("main"); remote != "origin" {
			t.Errorf("remote = %q, want origin fallback", remote)
		}
	})
}

func TestDiscardChanges(t *testing.T) {
	dir := testutil.SetupTestRepoWithFiles(t, map[string]string{"package.json": "{\"version\":\"1.0.0\"}\n"})

	ctx, _ := git.NewContext(dir)
	testutil.WriteFiles(t, dir, map[string]string{
		"package.json": "{\"version\":\"2.0.0\"}\n",
		"untracked.md": "scratch\n",
	})

	if err := ctx.DiscardChanges(); err != nil {
		t.Fatalf("DiscardChanges: %v", err)
	}

	clean, err := ctx.IsClean()
	if err != nil {
		t.Fatalf("IsClean: %v", err)
	}
	if !clean {
		status, _ := ctx.Status()
		t.Errorf("working tree not clean after discard:\n%s", status)
	}
}

func TestRunnerErrorCarriesOutput(t *testing.T) {
	dir := testutil.SetupTestRepo(t)

	runner := git.NewMockRunner()
	runner.Errors["git rev-parse HEAD"] = errors.New("fatal: bad revision 'HEAD'")

	ctx, _ := git.NewContext(dir, git.WithRunner(runner))
	_, err := ctx.HeadCommit()
	if err == nil {
		t.Fatal("expected error")
	}

	var gerr *git.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("err = %T, want *git.Error", err)
	}
	if !strings.Contains(gerr.Output, "bad revision") {
		t.Errorf("Output = %q, want captured process output", gerr.Output)
	}
	if gerr.Cmd != "git rev-parse HEAD" {
		t.Errorf("Cmd = %q", gerr.Cmd)
	}
}
