package triage

import (
	"context"
	"errors"
	"fmt"

	"relbot/internal/github"
	"relbot/internal/logger"
)

// StalledHandler rebases a stalled pull request's head branch onto the
// target branch and force-pushes the result back to the contributor's fork.
type StalledHandler struct {
	workspace Workspace
	target    string
	logger    logger.Logger
}

// NewStalledHandler creates a StalledHandler.
func NewStalledHandler(workspace Workspace, target string, log logger.Logger) *StalledHandler {
	return &StalledHandler{
		workspace: workspace,
		target:    target,
		logger:    log,
	}
}

// Handle runs the rebase workflow for one pull request.
func (h *StalledHandler) Handle(ctx context.Context, pr *github.PullRequest) error {
	if pr.HeadCloneURL == "" {
		return errors.New("pull request head repository is gone; cannot rebase")
	}
	if pr.HeadRef == "" {
		return errors.New("pull request head ref is empty")
	}

	branch := fmt.Sprintf("pr-%d-%s", pr.Number, pr.HeadRef)

	h.logger.Info("Processing stalled pull request",
		"number", pr.Number,
		"head_ref", pr.HeadRef,
		"target", h.target,
	)

	if err := h.workspace.Configure(ctx); err != nil {
		return err
	}
	h.workspace.CleanupState(ctx)

	if err := h.workspace.CheckoutPRHead(ctx, pr.HeadCloneURL, pr.HeadRef, branch); err != nil {
		return err
	}
	if err := h.workspace.Fetch(ctx, "origin", h.target); err != nil {
		return err
	}
	if err := h.workspace.Rebase(ctx, branch, h.target); err != nil {
		return fmt.Errorf("rebase of PR #%d failed: %w", pr.Number, err)
	}
	if err := h.workspace.PushForceWithLease(ctx, "head", branch, pr.HeadRef); err != nil {
		return err
	}

	h.workspace.CleanupState(ctx)

	h.logger.Info("Rebase and push complete", "number", pr.Number)
	return nil
}

var _ StalledWorkflow = (*StalledHandler)(nil)
