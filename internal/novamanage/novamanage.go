// Package novamanage runs the nova-manage administration CLI either as a local
// subprocess (devstack-local) or over SSH on the API host.
package novamanage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/celestiaorg/whitebox/internal/config"
	"github.com/celestiaorg/whitebox/internal/logger"
	"github.com/celestiaorg/whitebox/internal/ssh"
)

// Binary is the CLI executable name inside the bin dir.
const Binary = "nova-manage"

// ErrSourceDirNotFound is returned in devstack-local mode when the nova source
// tree is missing.
var ErrSourceDirNotFound = errors.New("cannot find Nova source directory")

// Result holds the captured output of a nova-manage run.
type Result struct {
	Stdout string
	Stderr string
}

// Dialer returns a Runner connected to the API host.
type Dialer func(ctx context.Context) (ssh.Runner, error)

// Manager dispatches nova-manage invocations.
type Manager struct {
	BinDir     string
	SourceDir  string
	DeployMode config.DeployMode

	// Local runs argv on this machine.
	Local LocalRunner
	// Remote connects to the API host for every non-local deploy mode.
	Remote Dialer
}

// NewManager builds a Manager from configuration. The remote dialer connects
// to api_host as api_user/api_passwd with the compute ssh_timeout.
func NewManager(cfg *config.Config) *Manager {
	wb := cfg.Whitebox
	timeout := cfg.Compute.SSHTimeout()
	return &Manager{
		BinDir:     wb.BinDir,
		SourceDir:  wb.SourceDir,
		DeployMode: wb.DeployMode,
		Local:      ExecRunner{},
		Remote: func(ctx context.Context) (ssh.Runner, error) {
			client, err := ssh.Connect(ctx, wb.APIHost, wb.APIUser, wb.APIPasswd, timeout,
				ssh.WithPrivateKeyFile(wb.PathToPrivateKey))
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}
}

// Command returns the shell command line for category/action/params.
func (m *Manager) Command(category, action, params string) string {
	path := filepath.Join(m.BinDir, Binary)
	return strings.Join([]string{path, category, action, params}, " ")
}

// Run executes nova-manage category action params.
func (m *Manager) Run(ctx context.Context, category, action, params string) (*Result, error) {
	cmd := m.Command(category, action, params)
	fields := map[string]interface{}{
		"deploy_mode": m.DeployMode,
		"category":    category,
		"action":      action,
	}

	if m.DeployMode.IsLocal() {
		logger.InfoWithFields("Running nova-manage locally", fields)
		return m.runLocal(ctx, cmd)
	}

	logger.InfoWithFields("Running nova-manage over SSH", fields)
	return m.runRemote(ctx, cmd)
}

func (m *Manager) runLocal(ctx context.Context, cmd string) (*Result, error) {
	info, err := os.Stat(m.SourceDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceDirNotFound, m.SourceDir)
	}
	if m.Local == nil {
		return nil, fmt.Errorf("no local runner configured")
	}

	argv, err := shlex.Split(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to split command %q: %w", cmd, err)
	}

	stdout, stderr, err := m.Local.Run(ctx, argv)
	return &Result{Stdout: stdout, Stderr: stderr}, err
}

func (m *Manager) runRemote(ctx context.Context, cmd string) (*Result, error) {
	if m.Remote == nil {
		return nil, fmt.Errorf("no remote dialer configured")
	}
	client, err := m.Remote(ctx)
	if err != nil {
		return nil, err
	}

	stdout, stderr, err := client.Exec(ctx, cmd)
	return &Result{Stdout: stdout, Stderr: stderr}, err
}
