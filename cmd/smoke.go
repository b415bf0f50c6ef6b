package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"relbot/internal/smoke"
)

var (
	smokeManifest    string
	smokeEndpoint    string
	smokeFailOnError bool
)

func newSmokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Smoke-test a running cluster",
	}

	cmd.AddCommand(newSmokeRunCmd())

	return cmd
}

func newSmokeRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay the fixture manifest against the cluster",
		Long: `Loads the YAML fixture manifest and issues every request in order
against the configured endpoint. Individual failures are logged and the
run continues; pass --fail-on-error to exit non-zero when any fixture
failed.`,
		RunE: runSmoke,
	}

	cmd.Flags().StringVar(&smokeManifest, "manifest", "", "path to the fixture manifest (default from config)")
	cmd.Flags().StringVar(&smokeEndpoint, "endpoint", "", "cluster endpoint URL (default from config)")
	cmd.Flags().BoolVar(&smokeFailOnError, "fail-on-error", false, "exit non-zero if any fixture failed")

	return cmd
}

func runSmoke(cmd *cobra.Command, args []string) error {
	if smokeManifest != "" {
		cfg.Smoke.Manifest = smokeManifest
	}
	if smokeEndpoint != "" {
		cfg.Smoke.Endpoint = smokeEndpoint
	}
	if smokeFailOnError {
		cfg.Smoke.FailOnError = true
	}

	if err := cfg.ValidateSmoke(); err != nil {
		return err
	}

	manifest, err := smoke.LoadManifest(cfg.Smoke.Manifest)
	if err != nil {
		return err
	}

	appLog.Info("Starting smoke run",
		"manifest", cfg.Smoke.Manifest,
		"endpoint", cfg.Smoke.Endpoint,
		"fixtures", len(manifest.Fixtures),
	)

	runner := smoke.NewRunner(cfg.Smoke.Endpoint, appLog)
	results := runner.Run(context.Background(), manifest)

	summary := smoke.Summarize(results)
	summary.Render(cmd.OutOrStdout())

	if cfg.Smoke.FailOnError && summary.Failed() > 0 {
		return fmt.Errorf("%d of %d fixtures failed", summary.Failed(), len(results))
	}

	return nil
}
