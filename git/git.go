package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kkeeling/pr-generator-cli/logger"
)

// DefaultCompareBranch is the branch diffed against when none is given
const DefaultCompareBranch = "main"

// ErrNoDifferences is returned when the current branch has no changes relative to the compare branch
var ErrNoDifferences = errors.New("No differences found between branches")

// SameBranchError is returned when the checkout is already on the compare branch
type SameBranchError struct {
	Branch string
}

func (e *SameBranchError) Error() string {
	return fmt.Sprintf("Current branch '%s' is the same as comparison branch '%s'", e.Branch, e.Branch)
}

// CommandError is returned when a git invocation fails
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return "Git error: " + stderr
	}
	return fmt.Sprintf("Failed to execute git command: %v", e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner defines an interface for running git commands
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Ensure DefaultRunner implements Runner interface
var _ Runner = (*DefaultRunner)(nil)

// DefaultRunner implements the Runner interface using exec.CommandContext
type DefaultRunner struct {
	RepoPath string
}

// NewDefaultRunner creates a new instance of DefaultRunner
func NewDefaultRunner(repoPath string) *DefaultRunner {
	return &DefaultRunner{
		RepoPath: repoPath,
	}
}

// Run executes a command and returns its untrimmed standard output
func (r *DefaultRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.RepoPath != "" {
		cmd.Dir = r.RepoPath
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Running %s %s in %s", name, strings.Join(args, " "), r.RepoPath)

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   append([]string{name}, args...),
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return stdout.String(), nil
}

// Client provides the git queries needed to describe a branch
type Client struct {
	runner Runner
}

// NewClient creates a new Git client
func NewClient(runner Runner) *Client {
	return &Client{
		runner: runner,
	}
}

// CurrentBranch returns the abbreviated name of the checked out branch
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	output, err := c.runner.Run(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Diff returns the raw diff between the merge base of branchName and HEAD, and HEAD
func (c *Client) Diff(ctx context.Context, branchName string) (string, error) {
	if branchName == "" {
		return "", errors.New("branch name cannot be empty")
	}

	return c.runner.Run(ctx, "git", "--no-pager", "diff", branchName+"...HEAD")
}

// BranchDiff returns the changes of the current branch relative to compareBranch.
// It refuses to diff a branch against itself and treats an empty diff as an error.
func (c *Client) BranchDiff(ctx context.Context, compareBranch string) (string, error) {
	if compareBranch == "" {
		compareBranch = DefaultCompareBranch
	}

	currentBranch, err := c.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	logger.Debugf("Current branch: %s, compare branch: %s", currentBranch, compareBranch)

	if currentBranch == compareBranch {
		return "", &SameBranchError{Branch: currentBranch}
	}

	diff, err := c.Diff(ctx, compareBranch)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(diff) == "" {
		return "", ErrNoDifferences
	}

	logger.Debugf("Diff against %s is %d bytes", compareBranch, len(diff))
	return diff, nil
}
