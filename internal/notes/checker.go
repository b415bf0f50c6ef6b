package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"relbot/internal/git"
	"relbot/internal/logger"
)

// Entry is the release notes status of one component.
type Entry struct {
	Repo       string
	Ref        string
	CommitID   string
	CommitDate string
	Exists     bool
	URL        string
}

// Checker clones each component at its manifest ref and reports whether
// release notes for the build version exist.
type Checker struct {
	command *git.Command
	since   string
	logger  logger.Logger
}

// NewChecker creates a Checker. since is the baseline date; only commits
// after it count as activity.
func NewChecker(since string, log logger.Logger) *Checker {
	return &Checker{
		command: git.NewCommand(log),
		since:   since,
		logger:  log,
	}
}

// CheckAll checks every component in the manifest and returns the entries
// sorted by repository and ref.
func (c *Checker) CheckAll(ctx context.Context, m *Manifest) ([]Entry, error) {
	entries := make([]Entry, 0, len(m.Components))
	for _, component := range m.Components {
		entry, err := c.Check(ctx, component, m.Build)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", component.Name, err)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Repo != entries[j].Repo {
			return entries[i].Repo < entries[j].Repo
		}
		return entries[i].Ref < entries[j].Ref
	})

	return entries, nil
}

// Check clones a single component into a temporary directory and inspects
// its latest commit and release-notes directory.
func (c *Checker) Check(ctx context.Context, component Component, build Build) (Entry, error) {
	entry := Entry{
		Repo: component.Name,
		Ref:  fmt.Sprintf("[%s]", component.Ref),
	}

	dir, err := os.MkdirTemp("", "relbot-notes-*")
	if err != nil {
		return entry, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	c.logger.Debug("Checking component",
		"component", component.Name,
		"repository", component.Repository,
		"ref", component.Ref,
	)

	if _, err := c.command.Run(ctx, "git",
		[]string{"clone", "--depth", "1", "--branch", component.Ref, component.Repository, dir}, ""); err != nil {
		return entry, fmt.Errorf("failed to clone %s: %w", component.Repository, err)
	}

	logArgs := []string{"log", "-1", "--format=%h|%cs"}
	if c.since != "" {
		logArgs = append(logArgs, "--since="+c.since)
	}
	output, err := c.command.Run(ctx, "git", logArgs, dir)
	if err != nil {
		return entry, err
	}
	if output != "" {
		id, date, found := strings.Cut(output, "|")
		if found {
			entry.CommitID = id
			entry.CommitDate = date
		}
	}

	filename, exists := releaseNotesFile(dir, build.FullVersion())
	entry.Exists = exists
	if exists {
		entry.URL = rawNotesURL(component.Repository, component.Ref, filename)
	}

	return entry, nil
}

// releaseNotesFile scans the release-notes directory for a file matching
// the version's filename convention and returns its base name.
func releaseNotesFile(repoDir, fullVersion string) (string, bool) {
	suffix := fmt.Sprintf(".release-notes-%s.md", fullVersion)

	files, err := os.ReadDir(filepath.Join(repoDir, "release-notes"))
	if err != nil {
		return "", false
	}
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), suffix) {
			return f.Name(), true
		}
	}
	return "", false
}

// rawNotesURL builds the raw content URL for a release notes file in a
// GitHub repository.
func rawNotesURL(repository, ref, filename string) string {
	repoPath := strings.TrimSuffix(repository, ".git")
	repoPath = strings.TrimSuffix(repoPath, "/")

	parts := strings.Split(repoPath, "/")
	if len(parts) < 2 {
		return ""
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]

	refParts := strings.Split(ref, "/")
	branch := refParts[len(refParts)-1]

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/release-notes/%s", owner, repo, branch, filename)
}
