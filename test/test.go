// Package test provides the base suite for whitebox compute tests
package test

import (
	"context"
	"time"

	"github.com/celestiaorg/whitebox/internal/compute"
	"github.com/celestiaorg/whitebox/internal/config"
	"github.com/celestiaorg/whitebox/internal/novamanage"
	"github.com/celestiaorg/whitebox/internal/ssh"
)

// DefaultTestTimeout bounds a whole suite, server builds included.
const DefaultTestTimeout = 30 * time.Minute

// Option represents a configuration option for a whitebox suite.
type Option func(*ComputeWhiteboxTest)

// WithConfig uses cfg instead of loading the configuration file.
func WithConfig(cfg *config.Config) Option {
	return func(s *ComputeWhiteboxTest) {
		s.Config = cfg
	}
}

// WithConfigFile loads configuration from path instead of WHITEBOX_CONFIG.
func WithConfigFile(path string) Option {
	return func(s *ComputeWhiteboxTest) {
		s.configFile = path
	}
}

// WithComputeClient uses client instead of authenticating against identity.
func WithComputeClient(client *compute.Client) Option {
	return func(s *ComputeWhiteboxTest) {
		s.Client = client
	}
}

// WithLocalRunner replaces the subprocess runner used in devstack-local mode.
func WithLocalRunner(runner novamanage.LocalRunner) Option {
	return func(s *ComputeWhiteboxTest) {
		s.localRunner = runner
	}
}

// WithRemoteRunner replaces the SSH connection to the API host.
func WithRemoteRunner(runner ssh.Runner) Option {
	return func(s *ComputeWhiteboxTest) {
		s.remoteRunner = runner
	}
}

// WithTimeout returns an option that sets the suite timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *ComputeWhiteboxTest) {
		s.timeout = timeout
	}
}

// WithCleanupFunc returns an option that adds a cleanup function to be
// called when the suite is torn down.
func WithCleanupFunc(cleanup func()) Option {
	return func(s *ComputeWhiteboxTest) {
		s.addCleanup(cleanup)
	}
}

func (s *ComputeWhiteboxTest) addCleanup(cleanup func()) {
	if cleanup == nil {
		return
	}
	oldCleanup := s.cleanup
	s.cleanup = func() {
		cleanup()
		if oldCleanup != nil {
			oldCleanup()
		}
	}
}

// Context returns the suite's context, which is canceled on teardown.
func (s *ComputeWhiteboxTest) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}
