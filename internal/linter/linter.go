// Package linter runs external lint tools and collects their findings
// into the unified error model.
package linter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/richhaase/aifix/internal/classify"
	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/parser"
	"github.com/richhaase/aifix/internal/terminal"
)

// DefaultTimeout bounds one linter invocation.
const DefaultTimeout = 120 * time.Second

// DefaultMaxErrors caps how many errors one run will work on.
const DefaultMaxErrors = 100

// Command describes how to invoke one lint tool.
type Command struct {
	Name string
	Args []string
}

// DefaultCommand returns the standard invocation for a tool.
func DefaultCommand(tool string) Command {
	switch tool {
	case "ruff":
		return Command{Name: "ruff", Args: []string{"check", "--output-format=json"}}
	case "mypy":
		return Command{Name: "mypy", Args: nil}
	case "eslint":
		return Command{Name: "npx", Args: []string{"eslint", "--format=json"}}
	case "pylint":
		return Command{Name: "pylint", Args: []string{"--output-format=json"}}
	case "tsc":
		return Command{Name: "npx", Args: []string{"tsc", "--noEmit"}}
	default:
		return Command{Name: tool}
	}
}

// Runner invokes linters and parses their output.
type Runner struct {
	timeout   time.Duration
	maxErrors int
	commands  map[string]Command
	logger    *terminal.Logger

	// execute is the subprocess hook, overridable in tests.
	execute func(ctx context.Context, cmd Command, files []string) ([]byte, error)
}

// NewRunner creates a runner. commands overrides per-tool invocations;
// zero values fall back to defaults.
func NewRunner(commands map[string]Command, timeout time.Duration, maxErrors int, logger *terminal.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	r := &Runner{
		timeout:   timeout,
		maxErrors: maxErrors,
		commands:  commands,
		logger:    logger,
	}
	r.execute = r.runCommand
	return r
}

// Run invokes one tool over the given files and parses its output.
// Linters exit non-zero when they find problems, so the exit status is
// ignored; only the output matters.
func (r *Runner) Run(ctx context.Context, tool string, files []string) ([]domain.LintError, error) {
	p, err := parser.New(tool)
	if err != nil {
		return nil, err
	}

	cmd, ok := r.commands[tool]
	if !ok || cmd.Name == "" {
		cmd = DefaultCommand(tool)
	}

	output, err := r.execute(ctx, cmd, files)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.warnf("linter %s timed out after %s", tool, r.timeout)
			return nil, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			r.debugf("linter %s not available, skipping", tool)
			return nil, nil
		}
		return nil, fmt.Errorf("running %s: %w", tool, err)
	}

	return p.Parse(output)
}

// Collect runs every tool, merges the findings, de-duplicates by
// location, sorts by priority, and truncates to the error budget.
// Parse failures are returned as diagnostics without aborting the run.
func (r *Runner) Collect(ctx context.Context, tools []string, files []string) ([]domain.LintError, []error) {
	var all []domain.LintError
	var diagnostics []error

	for _, tool := range tools {
		if err := ctx.Err(); err != nil {
			return all, append(diagnostics, err)
		}
		errs, err := r.Run(ctx, tool, files)
		if err != nil {
			diagnostics = append(diagnostics, err)
			continue
		}
		all = append(all, errs...)
	}

	all = domain.Dedupe(all)
	classify.SortErrors(all)
	if len(all) > r.maxErrors {
		r.warnf("truncating to first %d of %d errors", r.maxErrors, len(all))
		all = all[:r.maxErrors]
	}
	return all, diagnostics
}

func (r *Runner) runCommand(ctx context.Context, cmd Command, files []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, cmd.Args...), files...)
	c := exec.CommandContext(ctx, cmd.Name, args...)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
	}

	if stdout.Len() > 0 {
		return stdout.Bytes(), nil
	}
	return stderr.Bytes(), nil
}

func (r *Runner) warnf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Warning(format, args...)
	}
}

func (r *Runner) debugf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(format, args...)
	}
}

// Detect returns the linters that apply to a project based on its
// marker files.
func Detect(rootDir string) []string {
	var detected []string

	pythonMarkers := []string{"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt"}
	if anyExists(rootDir, pythonMarkers) {
		if binaryAvailable("ruff") {
			detected = append(detected, "ruff")
		}
		if binaryAvailable("mypy") {
			detected = append(detected, "mypy")
		}
	}

	jsMarkers := []string{"package.json", "tsconfig.json"}
	if anyExists(rootDir, jsMarkers) {
		localESLint := filepath.Join(rootDir, "node_modules", ".bin", "eslint")
		if binaryAvailable("eslint") || fileExists(localESLint) {
			detected = append(detected, "eslint")
		}
		if fileExists(filepath.Join(rootDir, "tsconfig.json")) {
			detected = append(detected, "tsc")
		}
	}

	return detected
}

func anyExists(dir string, names []string) bool {
	for _, name := range names {
		if fileExists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func binaryAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
