package triage

import (
	"context"
	"fmt"

	"relbot/internal/logger"
)

// Dispatcher classifies a pull request by its labels and runs the matching
// maintenance workflow.
type Dispatcher struct {
	github        GitHubClient
	stalled       StalledWorkflow
	backport      BackportWorkflow
	stalledLabel  string
	backportLabel string
	logger        logger.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(client GitHubClient, stalled StalledWorkflow, backport BackportWorkflow, stalledLabel, backportLabel string, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		github:        client,
		stalled:       stalled,
		backport:      backport,
		stalledLabel:  stalledLabel,
		backportLabel: backportLabel,
		logger:        log,
	}
}

// Run fetches the pull request, classifies it and dispatches. A label set
// matching neither workflow is an explicit no-op, not an error.
func (d *Dispatcher) Run(ctx context.Context, owner, repo string, number int) (Kind, error) {
	pr, err := d.github.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return KindNone, err
	}

	kind := Classify(pr.Labels, d.stalledLabel, d.backportLabel)

	d.logger.Info("Classified pull request",
		"number", pr.Number,
		"labels", pr.Labels,
		"kind", kind.String(),
	)

	switch kind {
	case KindStalled:
		if err := d.stalled.Handle(ctx, pr); err != nil {
			return kind, fmt.Errorf("stalled workflow failed: %w", err)
		}
	case KindBackport:
		if err := d.backport.HandlePR(ctx, pr); err != nil {
			return kind, fmt.Errorf("backport workflow failed: %w", err)
		}
	case KindNone:
		d.logger.Info("No maintenance label matched, nothing to do",
			"number", pr.Number,
		)
	}

	return kind, nil
}
