package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"relbot/internal/logger"
)

const changelogFile = "CHANGELOG.md"

// prHeadRemote is the remote name used for the contributor's fork.
const prHeadRemote = "head"

// stateArtifacts are the .git entries left behind by an interrupted
// rebase, cherry-pick, merge or am run.
var stateArtifacts = []string{
	"rebase-merge",
	"rebase-apply",
	"CHERRY_PICK_HEAD",
	"MERGE_HEAD",
	"AM_HEAD",
}

// Repo performs maintenance operations on a local git checkout.
type Repo struct {
	dir     string
	command *Command
	logger  logger.Logger
}

// NewRepo creates a Repo for the checkout at dir.
func NewRepo(dir string, log logger.Logger) *Repo {
	return &Repo{
		dir:     dir,
		command: NewCommand(log),
		logger:  log,
	}
}

// Dir returns the checkout directory.
func (r *Repo) Dir() string {
	return r.dir
}

// Configure sets the bot identity and enables rerere so previously
// resolved conflicts replay automatically.
func (r *Repo) Configure(ctx context.Context) error {
	configs := [][2]string{
		{"user.name", "relbot"},
		{"user.email", "relbot@users.noreply.github.com"},
		{"rerere.enabled", "true"},
	}
	for _, kv := range configs {
		r.command.RunUnchecked(ctx, "git", []string{"config", kv[0], kv[1]}, r.dir)
	}
	return nil
}

// CleanupState removes stale in-progress operation state so the checkout is
// safe to work in. Every step is best-effort.
func (r *Repo) CleanupState(ctx context.Context) {
	gitDir := filepath.Join(r.dir, ".git")
	for _, artifact := range stateArtifacts {
		path := filepath.Join(gitDir, artifact)
		if _, err := os.Stat(path); err == nil {
			r.logger.Warn("Cleaning up stale git state", "path", path)
			_ = os.RemoveAll(path)
		}
	}

	aborts := [][]string{
		{"rebase", "--abort"},
		{"cherry-pick", "--abort"},
		{"merge", "--abort"},
		{"am", "--abort"},
	}
	for _, args := range aborts {
		r.command.RunUnchecked(ctx, "git", args, r.dir)
	}

	r.command.RunUnchecked(ctx, "git", []string{"reset", "--hard"}, r.dir)
	r.command.RunUnchecked(ctx, "git", []string{"clean", "-fd"}, r.dir)
}

// CheckoutPRHead fetches the pull request's head branch from the
// contributor's fork into branch and checks it out.
func (r *Repo) CheckoutPRHead(ctx context.Context, remoteURL, remoteRef, branch string) error {
	r.command.RunUnchecked(ctx, "git", []string{"remote", "remove", prHeadRemote}, r.dir)
	r.command.RunUnchecked(ctx, "git", []string{"remote", "add", prHeadRemote, remoteURL}, r.dir)

	if _, err := r.command.Run(ctx, "git", []string{"fetch", prHeadRemote, fmt.Sprintf("%s:%s", remoteRef, branch)}, r.dir); err != nil {
		return fmt.Errorf("failed to fetch PR head %s: %w", remoteRef, err)
	}
	if _, err := r.command.Run(ctx, "git", []string{"checkout", branch}, r.dir); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// Fetch fetches a ref from the given remote.
func (r *Repo) Fetch(ctx context.Context, remote, ref string) error {
	if _, err := r.command.Run(ctx, "git", []string{"fetch", remote, ref}, r.dir); err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w", ref, remote, err)
	}
	return nil
}

// Checkout checks out the given branch.
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	if _, err := r.command.Run(ctx, "git", []string{"checkout", branch}, r.dir); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch, or "" on detached HEAD.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	output, err := r.command.Run(ctx, "git", []string{"branch", "--show-current"}, r.dir)
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return output, nil
}

// EnsureOnBranch checks out branch unless it is already current. A rebase
// can leave the checkout on a detached HEAD, which would make a subsequent
// push silently target the wrong ref.
func (r *Repo) EnsureOnBranch(ctx context.Context, branch string) error {
	current, err := r.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current == branch {
		return nil
	}

	r.logger.Info("Checking out branch", "branch", branch)
	return r.Checkout(ctx, branch)
}

// UnmergedFiles lists the files still carrying conflicts.
func (r *Repo) UnmergedFiles(ctx context.Context) ([]string, error) {
	output, err := r.command.Run(ctx, "git", []string{"diff", "--name-only", "--diff-filter=U"}, r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}

// Rebase rebases prBranch onto target, resolving conflicts automatically.
// Unresolvable conflicts abort the rebase and fail the run.
func (r *Repo) Rebase(ctx context.Context, prBranch, target string) error {
	if err := r.Checkout(ctx, target); err != nil {
		return err
	}
	if _, err := r.command.Run(ctx, "git", []string{"pull", "--ff-only"}, r.dir); err != nil {
		return fmt.Errorf("failed to fast-forward %s: %w", target, err)
	}
	if err := r.Checkout(ctx, prBranch); err != nil {
		return err
	}
	r.CleanupState(ctx)

	if _, err := r.command.Run(ctx, "git", []string{"rebase", target}, r.dir); err != nil {
		r.logger.Warn("Rebase hit conflicts, attempting automatic resolution",
			"branch", prBranch,
			"target", target,
		)

		if err := r.resolveAllConflicts(ctx); err != nil {
			return err
		}
		if err := r.ResolveChangelog(ctx); err != nil {
			return err
		}

		remaining, err := r.UnmergedFiles(ctx)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			r.logger.Error("Unresolved conflicts remain, aborting",
				"files", remaining,
			)
			r.command.RunUnchecked(ctx, "git", []string{"rebase", "--abort"}, r.dir)
			return fmt.Errorf("unresolved conflicts in %d file(s)", len(remaining))
		}

		if _, err := r.command.Run(ctx, "git", []string{"rebase", "--continue"}, r.dir); err != nil {
			return fmt.Errorf("failed to continue rebase: %w", err)
		}
	}

	return r.EnsureOnBranch(ctx, prBranch)
}

// CherryPick creates newBranch from target and cherry-picks each sha onto
// it, with the same conflict policy as Rebase.
func (r *Repo) CherryPick(ctx context.Context, shas []string, target, newBranch string) error {
	if err := r.Fetch(ctx, "origin", target); err != nil {
		return err
	}
	if _, err := r.command.Run(ctx, "git", []string{"checkout", "-b", newBranch, target}, r.dir); err != nil {
		// the target may only exist as a remote-tracking branch
		if _, err := r.command.Run(ctx, "git", []string{"checkout", "-b", newBranch, "origin/" + target}, r.dir); err != nil {
			return fmt.Errorf("failed to create branch %s from %s: %w", newBranch, target, err)
		}
	}
	r.CleanupState(ctx)

	for _, sha := range shas {
		if _, err := r.command.Run(ctx, "git", []string{"cherry-pick", sha}, r.dir); err == nil {
			continue
		}

		r.logger.Warn("Cherry-pick hit conflicts, attempting automatic resolution",
			"sha", sha,
			"branch", newBranch,
		)

		if err := r.resolveAllConflicts(ctx); err != nil {
			return err
		}
		if err := r.ResolveChangelog(ctx); err != nil {
			return err
		}

		remaining, err := r.UnmergedFiles(ctx)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			r.logger.Error("Unresolved conflicts remain, aborting",
				"sha", sha,
				"files", remaining,
			)
			r.command.RunUnchecked(ctx, "git", []string{"cherry-pick", "--abort"}, r.dir)
			return fmt.Errorf("unresolved conflicts while picking %s", sha)
		}

		if _, err := r.command.Run(ctx, "git", []string{"cherry-pick", "--continue"}, r.dir); err != nil {
			return fmt.Errorf("failed to continue cherry-pick: %w", err)
		}
	}

	return r.EnsureOnBranch(ctx, newBranch)
}

// resolveAllConflicts takes the incoming side of every conflicted file
// except the changelog, which gets a union merge instead.
func (r *Repo) resolveAllConflicts(ctx context.Context) error {
	files, err := r.UnmergedFiles(ctx)
	if err != nil {
		return err
	}

	for _, file := range files {
		if file == changelogFile {
			continue
		}
		if _, err := r.command.Run(ctx, "git", []string{"checkout", "--theirs", file}, r.dir); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		if _, err := r.command.Run(ctx, "git", []string{"add", file}, r.dir); err != nil {
			return fmt.Errorf("failed to stage %s: %w", file, err)
		}
	}

	return nil
}

// ResolveChangelog union-merges conflict hunks in CHANGELOG.md, keeping
// both sides with the incoming entries first, and stages the result.
func (r *Repo) ResolveChangelog(ctx context.Context) error {
	path := filepath.Join(r.dir, changelogFile)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", changelogFile, err)
	}

	resolved, changed := resolveConflictHunks(string(content), true)
	if !changed {
		return nil
	}

	if err := os.WriteFile(path, []byte(resolved), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", changelogFile, err)
	}
	if _, err := r.command.Run(ctx, "git", []string{"add", changelogFile}, r.dir); err != nil {
		return fmt.Errorf("failed to stage %s: %w", changelogFile, err)
	}

	r.logger.Info("Resolved changelog conflicts", "file", changelogFile)
	return nil
}

// PushForceWithLease pushes local to remoteBranch on the given remote.
func (r *Repo) PushForceWithLease(ctx context.Context, remote, local, remoteBranch string) error {
	refspec := fmt.Sprintf("%s:%s", local, remoteBranch)
	if _, err := r.command.Run(ctx, "git", []string{"push", "--force-with-lease", remote, refspec}, r.dir); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", refspec, remote, err)
	}
	return nil
}
