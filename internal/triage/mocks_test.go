package triage

import (
	"context"

	"relbot/internal/github"
)

// stubGitHubClient returns canned responses and records calls.
type stubGitHubClient struct {
	pr          *github.PullRequest
	prs         []*github.PullRequest
	commits     []string
	getErr      error
	listErr     error
	commitsErr  error
	getCalls    int
	listCalls   int
	commitCalls int
}

func (s *stubGitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	s.getCalls++
	return s.pr, s.getErr
}

func (s *stubGitHubClient) ListPullRequestsByLabel(ctx context.Context, owner, repo, label string) ([]*github.PullRequest, error) {
	s.listCalls++
	return s.prs, s.listErr
}

func (s *stubGitHubClient) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]string, error) {
	s.commitCalls++
	return s.commits, s.commitsErr
}

// recordingWorkspace records the git operations performed on it.
type recordingWorkspace struct {
	ops         []string
	rebaseErr   error
	pickErr     error
	pushErr     error
	checkoutErr error

	checkoutURL    string
	checkoutRef    string
	checkoutBranch string
	rebaseBranch   string
	rebaseTarget   string
	pickedShas     []string
	pickTarget     string
	pickBranch     string
	pushRemote     string
	pushLocal      string
	pushRemoteRef  string
}

func (w *recordingWorkspace) Configure(ctx context.Context) error {
	w.ops = append(w.ops, "configure")
	return nil
}

func (w *recordingWorkspace) CleanupState(ctx context.Context) {
	w.ops = append(w.ops, "cleanup")
}

func (w *recordingWorkspace) CheckoutPRHead(ctx context.Context, remoteURL, remoteRef, branch string) error {
	w.ops = append(w.ops, "checkout-pr-head")
	w.checkoutURL = remoteURL
	w.checkoutRef = remoteRef
	w.checkoutBranch = branch
	return w.checkoutErr
}

func (w *recordingWorkspace) Fetch(ctx context.Context, remote, ref string) error {
	w.ops = append(w.ops, "fetch")
	return nil
}

func (w *recordingWorkspace) Rebase(ctx context.Context, prBranch, target string) error {
	w.ops = append(w.ops, "rebase")
	w.rebaseBranch = prBranch
	w.rebaseTarget = target
	return w.rebaseErr
}

func (w *recordingWorkspace) CherryPick(ctx context.Context, shas []string, target, newBranch string) error {
	w.ops = append(w.ops, "cherry-pick")
	w.pickedShas = shas
	w.pickTarget = target
	w.pickBranch = newBranch
	return w.pickErr
}

func (w *recordingWorkspace) PushForceWithLease(ctx context.Context, remote, local, remoteBranch string) error {
	w.ops = append(w.ops, "push")
	w.pushRemote = remote
	w.pushLocal = local
	w.pushRemoteRef = remoteBranch
	return w.pushErr
}

// stubWorkflow counts handler invocations.
type stubWorkflow struct {
	calls int
	err   error
}

func (s *stubWorkflow) Handle(ctx context.Context, pr *github.PullRequest) error {
	s.calls++
	return s.err
}

func (s *stubWorkflow) HandlePR(ctx context.Context, pr *github.PullRequest) error {
	s.calls++
	return s.err
}
