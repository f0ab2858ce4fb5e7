package run

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Runner executes external commands. Implementations stream the child's
// output and report its outcome as an error, so callers can classify exit
// codes instead of inheriting them implicitly.
type Runner interface {
	// Run executes name with args and waits for it to finish.
	Run(ctx context.Context, name string, args ...string) error
	// LookPath resolves name on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec. Output streams to the configured
// writers, or to the process's own stdio when nil, so interactive children
// like sudo can still prompt.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	return cmd.Run()
}

// LookPath implements Runner.
func (r ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ExitCode extracts the child's exit status from a Run error: 0 for nil,
// the real status when the command ran and failed, -1 when it never ran.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
