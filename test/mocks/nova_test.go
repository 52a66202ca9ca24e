package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/whitebox/internal/compute"
)

func TestNovaServer_Lifecycle(t *testing.T) {
	nova := NewNovaServer()
	defer nova.Close()
	nova.SetBuildPolls(1)

	ctx := context.Background()
	svc := nova.Client().Servers()

	created, err := svc.Create(ctx, servers.CreateOpts{Name: "vm-1", ImageRef: "img", FlavorRef: "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultAdminPass, created.AdminPass)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, compute.StatusBuild, got.Status)
	assert.Equal(t, "vm-1", got.Name)
	assert.Equal(t, "1", got.Flavor["id"])

	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, compute.StatusActive, got.Status)

	all, err := svc.List(ctx, servers.ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, 0, nova.ServerCount())
	assert.Equal(t, []string{created.ID}, nova.Deletes())

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, compute.IsNotFound(err))
}

func TestNovaServer_FailBuild(t *testing.T) {
	nova := NewNovaServer()
	defer nova.Close()
	nova.SetFailBuild(true)

	ctx := context.Background()
	svc := nova.Client().Servers()

	created, err := svc.Create(ctx, servers.CreateOpts{Name: "vm-err", ImageRef: "img", FlavorRef: "1"})
	require.NoError(t, err)

	_, err = svc.WaitForStatus(ctx, created.ID, compute.StatusActive, 10*time.Millisecond, time.Second)
	require.Error(t, err)

	var fault *compute.ServerFaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, DefaultFaultCode, fault.Code)
	assert.Equal(t, DefaultFaultMessage, fault.Message)
}

func TestNovaServer_BadRequest(t *testing.T) {
	nova := NewNovaServer()
	defer nova.Close()

	_, err := nova.Client().Servers().Create(context.Background(), servers.CreateOpts{Name: "vm", ImageRef: "img"})
	assert.Error(t, err)
	assert.Empty(t, nova.Creates())
}

func TestNovaServer_SetStatus(t *testing.T) {
	nova := NewNovaServer()
	defer nova.Close()

	assert.False(t, nova.SetStatus("missing", compute.StatusActive))

	created, err := nova.Client().Servers().Create(context.Background(), servers.CreateOpts{Name: "vm", ImageRef: "img", FlavorRef: "2"})
	require.NoError(t, err)
	assert.True(t, nova.SetStatus(created.ID, "SHUTOFF"))

	got, err := nova.Client().Servers().Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SHUTOFF", got.Status)
	assert.Equal(t, []CreateRequest{{Name: "vm", ImageRef: "img", FlavorRef: "2"}}, nova.Creates())
}

func TestMockRunner(t *testing.T) {
	r := &MockRunner{}
	stdout, stderr, err := r.Exec(context.Background(), "uptime")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)

	r.ExecFunc = func(_ context.Context, cmd string) (string, string, error) {
		return "ran " + cmd, "", nil
	}
	stdout, _, err = r.Exec(context.Background(), "hostname")
	require.NoError(t, err)
	assert.Equal(t, "ran hostname", stdout)
	assert.Equal(t, []string{"uptime", "hostname"}, r.Commands())
}

func TestMockLocalRunner(t *testing.T) {
	r := &MockLocalRunner{}
	_, _, err := r.Run(context.Background(), []string{"nova-manage", "db", "version"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"nova-manage", "db", "version"}}, r.Calls())
}
