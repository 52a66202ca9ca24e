package novamanage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/whitebox/internal/config"
)

// writeFakeNovaManage installs a shell script standing in for nova-manage.
func writeFakeNovaManage(t *testing.T, body string) string {
	t.Helper()
	binDir := t.TempDir()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, Binary), []byte(script), 0o755))
	return binDir
}

func TestExecRunner_Run(t *testing.T) {
	binDir := writeFakeNovaManage(t, `echo "$@"`)

	m := &Manager{
		BinDir:     binDir,
		SourceDir:  t.TempDir(),
		DeployMode: config.DeployModeDevstackLocal,
		Local:      ExecRunner{},
	}

	result, err := m.Run(context.Background(), "service", "disable", "--host compute-1 --service nova-compute")
	require.NoError(t, err)
	assert.Equal(t, "service disable --host compute-1 --service nova-compute\n", result.Stdout)
}

func TestExecRunner_Run_ExitStatus(t *testing.T) {
	binDir := writeFakeNovaManage(t, `echo "bad category" >&2; exit 2`)

	stdout, stderr, err := ExecRunner{}.Run(context.Background(), []string{filepath.Join(binDir, Binary), "bogus"})
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "bad category\n", stderr)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode)
	assert.Contains(t, exitErr.Error(), "exited with status 2")
}

func TestExecRunner_Run_Errors(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), nil)
	assert.Error(t, err)

	_, _, err = ExecRunner{}.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
}
