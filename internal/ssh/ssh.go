// Package ssh opens SSH sessions to compute hosts and guests so whitebox tests
// can inspect state that the API does not expose.
package ssh

import (
	"context"
	"errors"
	"fmt"
)

// ErrSSHTimeout is returned when a host does not accept an SSH connection
// within the configured timeout.
var ErrSSHTimeout = errors.New("connection to the SSH server timed out")

// Runner defines the interface for executing commands on a remote host.
type Runner interface {
	Exec(ctx context.Context, cmd string) (stdout, stderr string, err error)
}

// CommandError is returned when a remote command exits non-zero.
type CommandError struct {
	Command    string
	ExitStatus int
	Stderr     string
	Err        error
}

// Error implements the error interface for CommandError
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed with exit status %d: %s", e.Command, e.ExitStatus, e.Stderr)
}

// Unwrap returns the underlying session error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
