package test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/celestiaorg/whitebox/internal/compute"
	"github.com/celestiaorg/whitebox/internal/config"
	"github.com/celestiaorg/whitebox/internal/db"
	"github.com/celestiaorg/whitebox/internal/logger"
	"github.com/celestiaorg/whitebox/internal/novamanage"
	"github.com/celestiaorg/whitebox/internal/ssh"
)

// WhiteboxTest marks a suite that inspects internal state of the cloud.
// Such tests:
//   - may read and change the nova database directly
//   - may run management commands on the API host
//   - may open SSH sessions to hosts and guests
//   - are not safe to run against a shared production cloud
type WhiteboxTest struct{}

// Whitebox reports that the embedding suite is a whitebox test.
func (WhiteboxTest) Whitebox() bool {
	return true
}

// ComputeWhiteboxTest is the base suite for whitebox tests of the compute
// service. Embed it in a suite struct and pass that to suite.Run.
type ComputeWhiteboxTest struct {
	suite.Suite
	WhiteboxTest

	Config  *config.Config
	Client  *compute.Client
	Servers *compute.ServerService

	// Copied from configuration in SetupSuite
	NovaDir           string
	ComputeBinDir     string
	ComputeConfigPath string
	BuildInterval     time.Duration
	BuildTimeout      time.Duration
	SSHUser           string
	SSHTimeout        time.Duration
	ImageRef          string
	ImageRefAlt       string
	FlavorRef         string
	FlavorRefAlt      string
	DeployMode        config.DeployMode

	novaManager  *novamanage.Manager
	configFile   string
	localRunner  novamanage.LocalRunner
	remoteRunner ssh.Runner
	timeout      time.Duration
	name         string

	ctx        context.Context
	cancelFunc context.CancelFunc
	cleanup    func()

	mu        sync.Mutex
	resources map[string]interface{}
	order     []string
}

// Configure applies options. Call it before suite.Run.
func (s *ComputeWhiteboxTest) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
}

// SetupSuite loads configuration, skips the suite when whitebox testing is
// disabled and builds the compute client and nova-manage runner.
func (s *ComputeWhiteboxTest) SetupSuite() {
	cfg := s.Config
	if cfg == nil {
		var err error
		if s.configFile != "" {
			cfg, err = config.LoadFile(s.configFile)
		} else {
			cfg, err = config.Load()
		}
		s.Require().NoError(err, "Failed to load whitebox configuration")
		s.Config = cfg
	}

	if !cfg.Whitebox.Enabled {
		s.T().Skip("Whitebox testing disabled")
	}
	s.Require().NoError(cfg.Validate(), "Invalid whitebox configuration")

	timeout := s.timeout
	if timeout <= 0 {
		timeout = DefaultTestTimeout
	}
	s.ctx, s.cancelFunc = context.WithTimeout(context.Background(), timeout)

	s.NovaDir = cfg.Whitebox.SourceDir
	s.ComputeBinDir = cfg.Whitebox.BinDir
	s.ComputeConfigPath = cfg.Whitebox.ConfigPath
	s.BuildInterval = cfg.Compute.BuildInterval()
	s.BuildTimeout = cfg.Compute.BuildTimeout()
	s.SSHUser = cfg.Compute.SSHUser
	s.SSHTimeout = cfg.Compute.SSHTimeout()
	s.ImageRef = cfg.Compute.ImageRef
	s.ImageRefAlt = cfg.Compute.ImageRefAlt
	s.FlavorRef = cfg.Compute.FlavorRef
	s.FlavorRefAlt = cfg.Compute.FlavorRefAlt
	s.DeployMode = cfg.Whitebox.DeployMode

	s.name = strings.ReplaceAll(s.T().Name(), "/", "-")

	if s.Client == nil {
		client, err := compute.NewClient(s.ctx, cfg.Identity)
		s.Require().NoError(err, "Failed to create compute client")
		s.Client = client
	}
	s.Servers = s.Client.Servers()

	s.novaManager = novamanage.NewManager(cfg)
	if s.localRunner != nil {
		s.novaManager.Local = s.localRunner
	}
	if s.remoteRunner != nil {
		remote := s.remoteRunner
		s.novaManager.Remote = func(context.Context) (ssh.Runner, error) {
			return remote, nil
		}
	}

	logger.InfoWithFields("Whitebox suite ready", map[string]interface{}{
		"suite":       s.name,
		"deploy_mode": s.DeployMode,
	})
}

// TearDownSuite deletes registered servers, newest first, waits for them to
// disappear and runs cleanup functions.
func (s *ComputeWhiteboxTest) TearDownSuite() {
	s.mu.Lock()
	keys := append([]string(nil), s.order...)
	s.mu.Unlock()

	for i := len(keys) - 1; i >= 0; i-- {
		value, ok := s.GetResource(keys[i])
		if !ok {
			continue
		}
		if server, ok := value.(*servers.Server); ok {
			s.deleteServer(server)
		}
		s.RemoveResource(keys[i])
	}

	if s.cleanup != nil {
		s.cleanup()
	}
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
}

// deleteServer runs on its own context so servers are removed even after the
// suite context has expired.
func (s *ComputeWhiteboxTest) deleteServer(server *servers.Server) {
	timeout := s.BuildTimeout
	if timeout <= 0 {
		timeout = DefaultTestTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Servers.Delete(ctx, server.ID); err != nil {
		if compute.IsNotFound(err) {
			return
		}
		logger.Warnf("Failed to delete server %s: %v", server.ID, err)
		return
	}
	if err := s.Servers.WaitForDeletion(ctx, server.ID, s.BuildInterval, timeout); err != nil {
		logger.Warnf("Server %s was not deleted: %v", server.ID, err)
	}
}

// SetResource registers value under key. Servers registered this way are
// deleted in TearDownSuite.
func (s *ComputeWhiteboxTest) SetResource(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resources == nil {
		s.resources = make(map[string]interface{})
	}
	if _, exists := s.resources[key]; !exists {
		s.order = append(s.order, key)
	}
	s.resources[key] = value
}

// GetResource returns the value registered under key.
func (s *ComputeWhiteboxTest) GetResource(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.resources[key]
	return value, ok
}

// RemoveResource forgets key without deleting anything.
func (s *ComputeWhiteboxTest) RemoveResource(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.resources, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// DBHandleAndMeta connects to the configured nova database and reflects its
// schema. A non-empty database replaces the one named in db_uri. The
// connection is closed on teardown.
func (s *ComputeWhiteboxTest) DBHandleAndMeta(database string) (*gorm.DB, *db.Metadata, error) {
	handle, meta, err := db.HandleAndMeta(s.Context(), s.Config.Whitebox.DBURI, database)
	if err != nil {
		return nil, nil, err
	}
	s.addCleanup(func() { db.Close(handle) })
	return handle, meta, nil
}

// NovaManage runs nova-manage locally or on the API host depending on the
// deploy mode.
func (s *ComputeWhiteboxTest) NovaManage(category, action, params string) (*novamanage.Result, error) {
	if s.novaManager == nil {
		return nil, fmt.Errorf("nova-manage is not configured; was SetupSuite run?")
	}
	return s.novaManager.Run(s.Context(), category, action, params)
}

// SSHConnection opens an authenticated SSH client to host, failing with
// ssh.ErrSSHTimeout when it cannot log in within the configured ssh_timeout.
func (s *ComputeWhiteboxTest) SSHConnection(host, user, password string, opts ...ssh.Option) (*ssh.Client, error) {
	return ssh.Connect(s.Context(), host, user, password, s.SSHTimeout, opts...)
}
