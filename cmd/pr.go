package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"relbot/internal/git"
	"relbot/internal/github"
	"relbot/internal/triage"
)

var (
	prOwner   string
	prRepo    string
	prNumber  int
	prRepoDir string
	prTarget  string
	prLabel   string
)

func newPRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Pull request maintenance workflows",
	}

	cmd.PersistentFlags().StringVar(&prOwner, "owner", "", "repository owner")
	cmd.PersistentFlags().StringVar(&prRepo, "repo", "", "repository name")
	cmd.PersistentFlags().StringVar(&prRepoDir, "repo-dir", "", "local checkout of the repository")
	cmd.PersistentFlags().StringVar(&prTarget, "target", "", "target branch (default from config)")

	cmd.AddCommand(newTriageCmd())
	cmd.AddCommand(newStalledCmd())
	cmd.AddCommand(newBackportCmd())

	return cmd
}

// applyPRFlags folds command-line flags into the config and validates it.
// Validation happens before any client is built, so a missing token or
// repository setting aborts before the first network call.
func applyPRFlags() error {
	if prOwner != "" {
		cfg.GitHub.Owner = prOwner
	}
	if prRepo != "" {
		cfg.GitHub.Repo = prRepo
	}
	if prRepoDir != "" {
		cfg.GitHub.RepoDir = prRepoDir
	}
	if prTarget != "" {
		cfg.GitHub.TargetBranch = prTarget
	}
	if prLabel != "" {
		cfg.GitHub.Labels.Backport = prLabel
	}

	return cfg.ValidatePR()
}

func newGitHubClient() (*github.Client, error) {
	return github.NewClient(cfg.GitHub.Token, github.WithLogger(appLog))
}

func newTriageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Classify a pull request by its labels and run the matching workflow",
		RunE:  runTriage,
	}

	cmd.Flags().IntVar(&prNumber, "pr", 0, "pull request number")

	return cmd
}

func runTriage(cmd *cobra.Command, args []string) error {
	if prNumber <= 0 {
		return errors.New("a positive pull request number is required (--pr)")
	}
	if err := applyPRFlags(); err != nil {
		return err
	}

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	workspace := git.NewRepo(cfg.GitHub.RepoDir, appLog)
	stalled := triage.NewStalledHandler(workspace, cfg.GitHub.TargetBranch, appLog)
	backport := triage.NewBackportHandler(client, workspace,
		cfg.GitHub.Owner, cfg.GitHub.Repo,
		cfg.GitHub.Labels.Backport, cfg.GitHub.TargetBranch, appLog)

	dispatcher := triage.NewDispatcher(client, stalled, backport,
		cfg.GitHub.Labels.Stalled, cfg.GitHub.Labels.Backport, appLog)

	kind, err := dispatcher.Run(context.Background(), cfg.GitHub.Owner, cfg.GitHub.Repo, prNumber)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "PR #%d classified as %q\n", prNumber, kind)
	return nil
}

func newStalledCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stalled",
		Short: "Rebase a stalled pull request onto the target branch",
		RunE:  runStalled,
	}

	cmd.Flags().IntVar(&prNumber, "pr", 0, "pull request number")

	return cmd
}

func runStalled(cmd *cobra.Command, args []string) error {
	if prNumber <= 0 {
		return errors.New("a positive pull request number is required (--pr)")
	}
	if err := applyPRFlags(); err != nil {
		return err
	}

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	pr, err := client.GetPullRequest(context.Background(), cfg.GitHub.Owner, cfg.GitHub.Repo, prNumber)
	if err != nil {
		return err
	}

	workspace := git.NewRepo(cfg.GitHub.RepoDir, appLog)
	handler := triage.NewStalledHandler(workspace, cfg.GitHub.TargetBranch, appLog)

	return handler.Handle(context.Background(), pr)
}

func newBackportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backport",
		Short: "Cherry-pick labelled pull requests onto the target branch",
		RunE:  runBackport,
	}

	cmd.Flags().StringVar(&prLabel, "label", "", "backport label to match (default from config)")

	return cmd
}

func runBackport(cmd *cobra.Command, args []string) error {
	if err := applyPRFlags(); err != nil {
		return err
	}

	client, err := newGitHubClient()
	if err != nil {
		return err
	}

	workspace := git.NewRepo(cfg.GitHub.RepoDir, appLog)
	handler := triage.NewBackportHandler(client, workspace,
		cfg.GitHub.Owner, cfg.GitHub.Repo,
		cfg.GitHub.Labels.Backport, cfg.GitHub.TargetBranch, appLog)

	return handler.HandleAll(context.Background())
}
