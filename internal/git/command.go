package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"relbot/internal/logger"
)

// Command executes git commands with structured logging.
type Command struct {
	logger logger.Logger
}

// NewCommand creates a new Command.
func NewCommand(logger logger.Logger) *Command {
	return &Command{
		logger: logger,
	}
}

// Run executes the given command and returns its trimmed stdout.
func (c *Command) Run(ctx context.Context, command string, args []string, workDir string) (string, error) {
	logFields := []interface{}{
		"command", command,
		"args", args,
	}
	if workDir != "" {
		logFields = append(logFields, "workDir", workDir)
	}

	c.logger.Debug("Executing git command", logFields...)

	cmd := exec.CommandContext(ctx, command, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	stdoutStr := strings.TrimSpace(stdout.String())
	stderrStr := strings.TrimSpace(stderr.String())

	if err != nil {
		errorFields := append(logFields,
			"error", err.Error(),
			"stderr", truncateOutput(stderrStr, 1000),
		)
		if stdoutStr != "" {
			errorFields = append(errorFields, "stdout", truncateOutput(stdoutStr, 1000))
		}

		c.logger.Error("Git command failed", errorFields...)

		if stderrStr != "" {
			return "", fmt.Errorf("git command failed: %w\nstderr: %s", err, stderrStr)
		}
		return "", fmt.Errorf("git command failed: %w", err)
	}

	successFields := logFields
	if stdoutStr != "" {
		successFields = append(successFields, "output", truncateOutput(stdoutStr, 500))
	}
	if stderrStr != "" {
		successFields = append(successFields, "stderr", truncateOutput(stderrStr, 500))
	}

	c.logger.Debug("Git command completed successfully", successFields...)

	return stdoutStr, nil
}

// RunUnchecked executes the command and discards any failure. Used for
// best-effort cleanup steps like aborting a rebase that may not exist.
func (c *Command) RunUnchecked(ctx context.Context, command string, args []string, workDir string) string {
	output, err := c.Run(ctx, command, args, workDir)
	if err != nil {
		c.logger.Debug("Ignoring command failure",
			"command", command,
			"args", args,
		)
		return ""
	}
	return output
}

// truncateOutput trims long command output for log entries.
func truncateOutput(output string, maxLength int) string {
	if len(output) <= maxLength {
		return output
	}

	lines := strings.Split(output, "\n")
	if len(lines) > 10 {
		result := strings.Join(lines[:5], "\n")
		result += fmt.Sprintf("\n... (%d lines omitted) ...\n", len(lines)-10)
		result += strings.Join(lines[len(lines)-5:], "\n")
		return result
	}

	return output[:maxLength] + "... (truncated)"
}
