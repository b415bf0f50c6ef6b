package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"relbot/internal/logger"
)

// initTestRepo creates a git repository with one commit on main.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.name", "test")
	runGit(t, dir, "config", "user.email", "test@example.com")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))
	runGit(t, dir, "add", "README.md")
	runGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, output)
}

func newTestRepo(t *testing.T, dir string) *Repo {
	t.Helper()
	testLogger, _ := logger.NewObservable(zapcore.DebugLevel)
	return NewRepo(dir, testLogger)
}

func TestRepo_CleanupState(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)

	// simulate an interrupted cherry-pick and rebase
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "CHERRY_PICK_HEAD"), []byte("deadbeef\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "rebase-merge"), 0755))

	repo.CleanupState(context.Background())

	assert.NoFileExists(t, filepath.Join(gitDir, "CHERRY_PICK_HEAD"))
	assert.NoDirExists(t, filepath.Join(gitDir, "rebase-merge"))
}

func TestRepo_CleanupState_RemovesUntrackedFiles(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)

	untracked := filepath.Join(dir, "scratch.txt")
	require.NoError(t, os.WriteFile(untracked, []byte("scratch\n"), 0644))

	repo.CleanupState(context.Background())

	assert.NoFileExists(t, untracked)
}

func TestRepo_CurrentBranch(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)

	branch, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestRepo_EnsureOnBranch(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)
	ctx := context.Background()

	runGit(t, dir, "branch", "pr-42-fix-stats")

	// switches when on a different branch
	require.NoError(t, repo.EnsureOnBranch(ctx, "pr-42-fix-stats"))
	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pr-42-fix-stats", branch)

	// no-op when already on the branch
	require.NoError(t, repo.EnsureOnBranch(ctx, "pr-42-fix-stats"))
}

func TestRepo_Checkout_UnknownBranch(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)

	err := repo.Checkout(context.Background(), "no-such-branch")
	assert.Error(t, err)
}

func TestRepo_Configure(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)

	require.NoError(t, repo.Configure(context.Background()))

	cmd := exec.Command("git", "config", "user.name")
	cmd.Dir = dir
	output, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "relbot\n", string(output))
}

func TestRepo_UnmergedFiles_CleanTree(t *testing.T) {
	dir := initTestRepo(t)
	repo := newTestRepo(t, dir)

	files, err := repo.UnmergedFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRepo_ResolveChangelog(t *testing.T) {
	t.Run("no changelog present", func(t *testing.T) {
		dir := initTestRepo(t)
		repo := newTestRepo(t, dir)

		assert.NoError(t, repo.ResolveChangelog(context.Background()))
	})

	t.Run("no conflict markers leaves file alone", func(t *testing.T) {
		dir := initTestRepo(t)
		repo := newTestRepo(t, dir)

		content := "## 2.1.0\n- Entry\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(content), 0644))

		require.NoError(t, repo.ResolveChangelog(context.Background()))

		got, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	})

	t.Run("conflict hunks union-merged and staged", func(t *testing.T) {
		dir := initTestRepo(t)
		repo := newTestRepo(t, dir)

		conflicted := "## Unreleased\n" +
			"<<<<<<< HEAD\n" +
			"- Local entry\n" +
			"=======\n" +
			"- Incoming entry\n" +
			">>>>>>> main\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(conflicted), 0644))

		require.NoError(t, repo.ResolveChangelog(context.Background()))

		got, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
		require.NoError(t, err)
		want := "## Unreleased\n" +
			"- Incoming entry\n" +
			"- Local entry\n"
		assert.Equal(t, want, string(got))

		// staged
		cmd := exec.Command("git", "diff", "--cached", "--name-only")
		cmd.Dir = dir
		output, err := cmd.Output()
		require.NoError(t, err)
		assert.Contains(t, string(output), "CHANGELOG.md")
	})
}

func TestRepo_CherryPick(t *testing.T) {
	// source repository acting as origin with a release branch
	origin := initTestRepo(t)
	runGit(t, origin, "branch", "2.x")

	// commit on main to backport
	require.NoError(t, os.WriteFile(filepath.Join(origin, "fix.txt"), []byte("fix\n"), 0644))
	runGit(t, origin, "add", "fix.txt")
	runGit(t, origin, "commit", "-m", "fix flaky test")

	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = origin
	shaBytes, err := cmd.Output()
	require.NoError(t, err)
	sha := string(shaBytes[:len(shaBytes)-1])

	// working clone
	workDir := t.TempDir()
	clone := exec.Command("git", "clone", origin, workDir)
	output, err := clone.CombinedOutput()
	require.NoError(t, err, "clone: %s", output)
	runGit(t, workDir, "config", "user.name", "test")
	runGit(t, workDir, "config", "user.email", "test@example.com")

	repo := newTestRepo(t, workDir)
	ctx := context.Background()

	require.NoError(t, repo.CherryPick(ctx, []string{sha}, "2.x", "backport-pr-1-2.x"))

	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backport-pr-1-2.x", branch)
	assert.FileExists(t, filepath.Join(workDir, "fix.txt"))
}
