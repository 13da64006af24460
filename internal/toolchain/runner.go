package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultTimeout applies to commands that do not set their own.
const DefaultTimeout = 60 * time.Second

// errorMarker is the substring the ISE tools print in front of fatal messages.
const errorMarker = "ERROR:"

// waitDelay bounds how long Run waits for output after the process ends.
const waitDelay = 2 * time.Second

// Outcome classifies how a command ended.
type Outcome int

const (
	// OutcomeSuccess means the command exited cleanly with no error markers.
	OutcomeSuccess Outcome = iota

	// OutcomeToolReportedError means the tool exited with code zero but
	// reported an error in its output.
	OutcomeToolReportedError

	// OutcomeProcessFailed means the process exited with a non-zero code.
	OutcomeProcessFailed

	// OutcomeMarkerMissing means the configured success marker never appeared.
	OutcomeMarkerMissing
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeToolReportedError:
		return "tool reported error"
	case OutcomeProcessFailed:
		return "process failed"
	case OutcomeMarkerMissing:
		return "success marker missing"
	default:
		return "unknown"
	}
}

// Command describes one tool invocation.
type Command struct {
	// Name is the executable. Bare names are looked up in the toolchain
	// binary directory first, then on PATH.
	Name string

	// Args are the command-line arguments.
	Args []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Timeout bounds the run; zero means DefaultTimeout.
	Timeout time.Duration

	// SuccessMarker, when set, must appear in stdout for the run to succeed.
	SuccessMarker string

	// CheckStderr treats any stderr output as a tool error. Many ISE tools
	// write noise to stderr, so this is off unless asked for.
	CheckStderr bool

	// ExpectedStderr lists substrings removed from stderr before checking it.
	ExpectedStderr []string

	// ExpectedStderrPatterns are removed from stderr like ExpectedStderr,
	// for messages that embed paths or counts.
	ExpectedStderrPatterns []*regexp.Regexp
}

// String returns the command line for logging.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is what a finished command produced.
type Result struct {
	Outcome  Outcome
	ExitCode int
	Stdout   string
	Stderr   string

	// Details explains a non-success outcome.
	Details  string
	Duration time.Duration
}

// Succeeded reports whether the outcome is OutcomeSuccess.
func (r *Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// WriteLog writes the captured stdout to path, creating parent directories.
func (r *Result) WriteLog(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(r.Stdout), 0600); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

// Runner executes commands against one toolchain environment.
type Runner struct {
	env    Environment
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner for env.
func NewRunner(env Environment, opts ...RunnerOption) (*Runner, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{env: env}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Run executes cmd and waits for it to finish. An error is returned only
// when no Result exists: the executable could not be started, the context
// was cancelled, or the timeout expired. Every finished process yields a
// Result, whatever its outcome.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Name == "" {
		return nil, ErrEmptyCommand
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(ctx, r.resolve(cmd.Name), cmd.Args...) //nolint:gosec // Running tools is the purpose of this package
	c.Dir = cmd.Dir
	c.Env = r.env.Env()
	// Children of a killed tool may hold the output pipes open.
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	r.logger.Debug("running command",
		"command", cmd.String(),
		"dir", cmd.Dir,
		"timeout", timeout,
	)

	start := time.Now()
	err := c.Run()
	elapsed := time.Since(start)

	if failure := runFailure(cmd, timeout, err, ctx.Err()); failure != nil {
		return nil, failure
	}

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	classify(cmd, result)

	r.logger.Debug("command finished",
		"command", cmd.Name,
		"outcome", result.Outcome.String(),
		"exitCode", result.ExitCode,
		"elapsed", elapsed,
		"stdout", result.Stdout,
	)

	return result, nil
}

// runFailure maps the error from exec.Cmd.Run to the error Run returns, or
// nil when the process finished and a Result should be built. The context
// error only matters when Run failed: a process that exited cleanly as the
// deadline passed still succeeded.
func runFailure(cmd Command, timeout time.Duration, runErr, ctxErr error) error {
	if runErr == nil {
		return nil
	}
	if ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, cmd.String())
		}
		return fmt.Errorf("command cancelled: %w", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return nil
	}
	return fmt.Errorf("failed to run %s: %w", cmd.Name, runErr)
}

// resolve prefers an executable in the toolchain directories over PATH
// lookup, since the child PATH is not used to find the program itself.
func (r *Runner) resolve(name string) string {
	if r.env.InstallDir == "" || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	var candidates []string
	for _, dir := range r.env.SearchDirs() {
		candidate := filepath.Join(dir, name)
		candidates = append(candidates, candidate)
		if r.env.goos() == "windows" {
			candidates = append(candidates, candidate+".exe")
		}
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return name
}

// classify sets Outcome and Details on a finished result.
func classify(cmd Command, result *Result) {
	if result.ExitCode != 0 {
		result.Outcome = OutcomeProcessFailed
		result.Details = fmt.Sprintf("command exited with code %d", result.ExitCode)
		return
	}

	if lines := errorLines(result.Stdout); len(lines) > 0 {
		result.Outcome = OutcomeToolReportedError
		result.Details = strings.Join(lines, "\n")
		return
	}

	if cmd.CheckStderr {
		if rest := stripExpected(result.Stderr, cmd.ExpectedStderr, cmd.ExpectedStderrPatterns); rest != "" {
			result.Outcome = OutcomeToolReportedError
			result.Details = "stderr not empty:\n" + rest
			return
		}
	}

	if cmd.SuccessMarker != "" && !strings.Contains(result.Stdout, cmd.SuccessMarker) {
		result.Outcome = OutcomeMarkerMissing
		result.Details = fmt.Sprintf("output does not contain %q", cmd.SuccessMarker)
		return
	}

	result.Outcome = OutcomeSuccess
}

// errorLines returns the stdout lines containing the error marker.
func errorLines(stdout string) []string {
	var lines []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, errorMarker) {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}

// stripExpected removes expected messages from stderr and trims whitespace.
func stripExpected(stderr string, expected []string, patterns []*regexp.Regexp) string {
	for _, msg := range expected {
		stderr = strings.ReplaceAll(stderr, msg, "")
	}
	for _, re := range patterns {
		stderr = re.ReplaceAllString(stderr, "")
	}
	return strings.TrimSpace(stderr)
}
