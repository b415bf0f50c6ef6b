package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"relbot/internal/notes"
)

var (
	notesManifest string
	notesSince    string
	notesWithURLs bool
)

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Release notes maintenance",
	}

	cmd.AddCommand(newNotesCheckCmd())

	return cmd
}

func newNotesCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which components have release notes for the build version",
		Long: `Clones every component in the manifest at its pinned ref, looks for a
release notes file matching the build version, and renders the result as
a markdown table together with each component's latest commit after the
baseline date.`,
		RunE: runNotesCheck,
	}

	cmd.Flags().StringVar(&notesManifest, "manifest", "", "path to the component manifest")
	cmd.Flags().StringVar(&notesSince, "since", "", "baseline date for commit activity (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&notesWithURLs, "urls", false, "include raw content URLs for existing release notes")

	return cmd
}

func runNotesCheck(cmd *cobra.Command, args []string) error {
	if notesManifest == "" {
		return errors.New("a component manifest is required (--manifest)")
	}
	if notesSince == "" {
		return errors.New("a baseline date is required (--since)")
	}

	manifest, err := notes.LoadManifest(notesManifest)
	if err != nil {
		return err
	}

	appLog.Info("Checking release notes",
		"manifest", notesManifest,
		"version", manifest.Build.FullVersion(),
		"components", len(manifest.Components),
	)

	checker := notes.NewChecker(notesSince, appLog)
	entries, err := checker.CheckAll(context.Background(), manifest)
	if err != nil {
		return err
	}

	report := notes.Report{
		Since:    notesSince,
		Entries:  entries,
		WithURLs: notesWithURLs,
	}
	report.Render(cmd.OutOrStdout())

	return nil
}
