package triage

import (
	"context"
	"fmt"

	"relbot/internal/github"
	"relbot/internal/logger"
)

// BackportHandler cherry-picks labelled pull requests onto a release branch
// and pushes the resulting backport branches to origin.
type BackportHandler struct {
	github    GitHubClient
	workspace Workspace
	owner     string
	repo      string
	label     string
	target    string
	logger    logger.Logger
}

// NewBackportHandler creates a BackportHandler.
func NewBackportHandler(client GitHubClient, workspace Workspace, owner, repo, label, target string, log logger.Logger) *BackportHandler {
	return &BackportHandler{
		github:    client,
		workspace: workspace,
		owner:     owner,
		repo:      repo,
		label:     label,
		target:    target,
		logger:    log,
	}
}

// HandleAll processes every open pull request carrying the backport label.
// Zero matching pull requests is not an error.
func (h *BackportHandler) HandleAll(ctx context.Context) error {
	prs, err := h.github.ListPullRequestsByLabel(ctx, h.owner, h.repo, h.label)
	if err != nil {
		return err
	}
	if len(prs) == 0 {
		h.logger.Info("No backport PRs found", "label", h.label)
		return nil
	}

	for _, pr := range prs {
		if err := h.HandlePR(ctx, pr); err != nil {
			return err
		}
	}
	return nil
}

// HandlePR cherry-picks a single pull request onto the target branch. The
// workspace identity is configured and stale rebase/cherry-pick state is
// cleared before the first pick.
func (h *BackportHandler) HandlePR(ctx context.Context, pr *github.PullRequest) error {
	newBranch := fmt.Sprintf("backport-pr-%d-%s", pr.Number, h.target)

	h.logger.Info("Processing backport pull request",
		"number", pr.Number,
		"target", h.target,
		"branch", newBranch,
	)

	if err := h.workspace.Configure(ctx); err != nil {
		return err
	}
	h.workspace.CleanupState(ctx)

	shas, err := h.github.ListPullRequestCommits(ctx, h.owner, h.repo, pr.Number)
	if err != nil {
		return err
	}
	if len(shas) == 0 {
		return fmt.Errorf("pull request #%d has no commits", pr.Number)
	}

	if err := h.workspace.CherryPick(ctx, shas, h.target, newBranch); err != nil {
		return fmt.Errorf("backport of PR #%d failed: %w", pr.Number, err)
	}
	if err := h.workspace.PushForceWithLease(ctx, "origin", newBranch, newBranch); err != nil {
		return err
	}

	h.workspace.CleanupState(ctx)

	h.logger.Info("Backport and push complete", "number", pr.Number)
	return nil
}

var _ BackportWorkflow = (*BackportHandler)(nil)
