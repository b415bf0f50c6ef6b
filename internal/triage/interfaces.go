package triage

import (
	"context"

	"relbot/internal/github"
)

// GitHubClient is the GitHub API surface the triage workflows need.
type GitHubClient interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	ListPullRequestsByLabel(ctx context.Context, owner, repo, label string) ([]*github.PullRequest, error)
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// Workspace is the local git checkout the workflows operate in.
// *git.Repo implements it.
type Workspace interface {
	Configure(ctx context.Context) error
	CleanupState(ctx context.Context)
	CheckoutPRHead(ctx context.Context, remoteURL, remoteRef, branch string) error
	Fetch(ctx context.Context, remote, ref string) error
	Rebase(ctx context.Context, prBranch, target string) error
	CherryPick(ctx context.Context, shas []string, target, newBranch string) error
	PushForceWithLease(ctx context.Context, remote, local, remoteBranch string) error
}

// StalledWorkflow rebases a stalled pull request.
type StalledWorkflow interface {
	Handle(ctx context.Context, pr *github.PullRequest) error
}

// BackportWorkflow cherry-picks a labelled pull request onto a release branch.
type BackportWorkflow interface {
	HandlePR(ctx context.Context, pr *github.PullRequest) error
}
