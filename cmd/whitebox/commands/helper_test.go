package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/whitebox/internal/compute"
	"github.com/celestiaorg/whitebox/internal/config"
	"github.com/celestiaorg/whitebox/internal/db"
	"github.com/celestiaorg/whitebox/internal/db/models"
	"github.com/celestiaorg/whitebox/internal/novamanage"
	"github.com/celestiaorg/whitebox/test/mocks"
)

const configTemplate = `[identity]
uri = http://keystone.invalid:5000/v3

[compute]
build_interval = 1
build_timeout = 5
ssh_timeout = 1
image_ref = cirros-0.6.2
flavor_ref = 1

[whitebox]
whitebox_enabled = true
db_uri = sqlite:///%s
source_dir = %s
bin_dir = /opt/nova/bin
deploy_mode = devstack-local
`

// writeTestConfig writes a config file backed by a seeded sqlite database
// and returns its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nova.db")

	handle, err := db.Open("sqlite:///"+dbPath, db.Options{})
	require.NoError(t, err)
	defer db.Close(handle)
	require.NoError(t, handle.AutoMigrate(models.All()...))

	path := filepath.Join(dir, "tempest.conf")
	content := fmt.Sprintf(configTemplate, dbPath, dir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// useFakeCompute points server commands at a fake compute API
func useFakeCompute(t *testing.T) *mocks.NovaServer {
	t.Helper()
	nova := mocks.NewNovaServer()
	t.Cleanup(nova.Close)

	orig := newComputeClient
	newComputeClient = func(context.Context, config.IdentityConfig) (*compute.Client, error) {
		return nova.Client(), nil
	}
	t.Cleanup(func() { newComputeClient = orig })
	return nova
}

// useFakeLocalRunner replaces the nova-manage subprocess runner
func useFakeLocalRunner(t *testing.T, runner novamanage.LocalRunner) {
	t.Helper()
	orig := newManager
	newManager = func(c *config.Config) *novamanage.Manager {
		m := orig(c)
		m.Local = runner
		return m
	}
	t.Cleanup(func() { newManager = orig })
}

// executeCommand runs the root command with args and captures its output
func executeCommand(args ...string) (string, string, error) {
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
