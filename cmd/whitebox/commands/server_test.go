package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/whitebox/internal/compute"
)

func TestServerCreateCmd(t *testing.T) {
	path := writeTestConfig(t)
	nova := useFakeCompute(t)

	stdout, _, err := executeCommand("--config", path, "server", "create", "--name", "cli-vm", "--wait-until", compute.StatusActive)
	require.NoError(t, err)

	var out serverOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "cli-vm", out.Name)
	assert.Equal(t, compute.StatusActive, out.Status)
	assert.NotEmpty(t, out.ID)

	creates := nova.Creates()
	require.Len(t, creates, 1)
	assert.Equal(t, "cirros-0.6.2", creates[0].ImageRef)
	assert.Equal(t, "1", creates[0].FlavorRef)
}

func TestServerCreateCmd_Overrides(t *testing.T) {
	path := writeTestConfig(t)
	nova := useFakeCompute(t)

	_, _, err := executeCommand("--config", path, "server", "create", "--image", "fedora-40", "--flavor", "42")
	require.NoError(t, err)

	creates := nova.Creates()
	require.Len(t, creates, 1)
	assert.Equal(t, "fedora-40", creates[0].ImageRef)
	assert.Equal(t, "42", creates[0].FlavorRef)
	assert.Contains(t, creates[0].Name, "whitebox-instance-")
}

func TestServerCreateCmd_Fault(t *testing.T) {
	path := writeTestConfig(t)
	nova := useFakeCompute(t)
	nova.SetFailBuild(true)

	_, _, err := executeCommand("--config", path, "server", "create", "--wait-until", compute.StatusActive)
	require.Error(t, err)

	var fault *compute.ServerFaultError
	assert.ErrorAs(t, err, &fault)
}

func TestServerDeleteCmd(t *testing.T) {
	path := writeTestConfig(t)
	nova := useFakeCompute(t)

	created, err := nova.Client().Servers().Create(context.Background(), servers.CreateOpts{
		Name: "doomed", ImageRef: "cirros", FlavorRef: "1",
	})
	require.NoError(t, err)

	stdout, _, err := executeCommand("--config", path, "server", "delete", created.ID, "--wait")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Server "+created.ID+" deleted")
	assert.Equal(t, 0, nova.ServerCount())

	_, _, err = executeCommand("--config", path, "server", "delete", created.ID)
	require.Error(t, err)
	assert.True(t, compute.IsNotFound(err))
}
