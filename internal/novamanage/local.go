package novamanage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// LocalRunner executes an argv on the local machine.
type LocalRunner interface {
	Run(ctx context.Context, argv []string) (stdout, stderr string, err error)
}

// ExitError is returned when a local command exits non-zero.
type ExitError struct {
	Argv     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface for ExitError
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %s", e.Argv[0], e.ExitCode, e.Stderr)
}

// Unwrap returns the underlying exec error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements LocalRunner.Run
func (ExecRunner) Run(ctx context.Context, argv []string) (string, string, error) {
	if len(argv) == 0 {
		return "", "", fmt.Errorf("empty command")
	}

	// #nosec G204 -- argv is built from operator configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), &ExitError{
				Argv:     argv,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
				Err:      err,
			}
		}
		return stdout.String(), stderr.String(), fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return stdout.String(), stderr.String(), nil
}
