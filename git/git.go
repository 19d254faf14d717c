package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner defines an interface for running git commands
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// Ensure DefaultRunner implements Runner interface
var _ Runner = (*DefaultRunner)(nil)

// DefaultRunner implements the Runner interface using exec.Command
type DefaultRunner struct {
	RepoPath string
}

// NewDefaultRunner creates a new instance of DefaultRunner
func NewDefaultRunner(repoPath string) *DefaultRunner {
	return &DefaultRunner{
		RepoPath: repoPath,
	}
}

// Run executes a git command and returns its output
func (r *DefaultRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if r.RepoPath != "" {
		cmd.Dir = r.RepoPath
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("error running command: %s\nstderr: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ErrNotRepository is returned when the working directory is not inside a git work tree
var ErrNotRepository = errors.New("not a git repository")

// Client provides the git operations used to enumerate source files
type Client struct {
	runner Runner
}

// NewClient creates a new Git client
func NewClient(runner Runner) *Client {
	return &Client{
		runner: runner,
	}
}

// IsRepository reports whether the runner's directory is inside a git work tree
func (c *Client) IsRepository() bool {
	output, err := c.runner.Run("git", "rev-parse", "--is-inside-work-tree")
	return err == nil && output == "true"
}

// ListTrackedFiles returns the files tracked by git, relative to the runner's
// directory, in the order git reports them (sorted by path).
func (c *Client) ListTrackedFiles() ([]string, error) {
	if !c.IsRepository() {
		return nil, ErrNotRepository
	}

	output, err := c.runner.Run("git", "ls-files", "-z", "--cached")
	if err != nil {
		return nil, fmt.Errorf("error listing tracked files: %w", err)
	}

	files := []string{}
	for _, path := range strings.Split(output, "\x00") {
		if path == "" {
			continue
		}
		files = append(files, path)
	}

	return files, nil
}
