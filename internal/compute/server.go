package compute

import (
	"context"
	"fmt"
	"time"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"

	"github.com/celestiaorg/whitebox/internal/logger"
)

// Server statuses reported by the compute API
const (
	StatusActive  = "ACTIVE"
	StatusBuild   = "BUILD"
	StatusError   = "ERROR"
	StatusDeleted = "DELETED"
)

// ServerService handles server-related operations
type ServerService struct {
	client *Client
}

// newServerService creates a new server service
func newServerService(client *Client) *ServerService {
	return &ServerService{
		client: client,
	}
}

// Create creates a new server
func (s *ServerService) Create(ctx context.Context, opts servers.CreateOptsBuilder) (*servers.Server, error) {
	server, err := servers.Create(ctx, s.client.service, opts, nil).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	logger.DebugWithFields("Server created", map[string]interface{}{
		"server_id": server.ID,
		"name":      server.Name,
	})
	return server, nil
}

// Get returns details of a specific server
func (s *ServerService) Get(ctx context.Context, id string) (*servers.Server, error) {
	server, err := servers.Get(ctx, s.client.service, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", id, err)
	}
	return server, nil
}

// Delete deletes a server
func (s *ServerService) Delete(ctx context.Context, id string) error {
	if err := servers.Delete(ctx, s.client.service, id).ExtractErr(); err != nil {
		return fmt.Errorf("failed to delete server %s: %w", id, err)
	}
	return nil
}

// List returns every server visible to the client
func (s *ServerService) List(ctx context.Context, opts servers.ListOptsBuilder) ([]servers.Server, error) {
	pages, err := servers.List(s.client.service, opts).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	all, err := servers.ExtractServers(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to parse servers response: %w", err)
	}
	return all, nil
}

// WaitForStatus polls the server every interval until it reports status.
// A server entering ERROR fails immediately with *ServerFaultError.
func (s *ServerService) WaitForStatus(ctx context.Context, id, status string, interval, timeout time.Duration) (*servers.Server, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidInterval, interval)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		server, err := s.Get(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: server %s did not reach %s within %s", ErrBuildTimeout, id, status, timeout)
			}
			return nil, err
		}

		if server.Status == status {
			logger.Infof("Server %s reached status %s", id, status)
			return server, nil
		}
		if server.Status == StatusError && status != StatusError {
			return server, &ServerFaultError{
				ID:      id,
				Status:  server.Status,
				Code:    server.Fault.Code,
				Message: server.Fault.Message,
			}
		}

		logger.Debugf("Waiting for server %s: status=%s, want=%s", id, server.Status, status)

		select {
		case <-ctx.Done():
			return server, fmt.Errorf("%w: server %s stuck in %s, wanted %s after %s", ErrBuildTimeout, id, server.Status, status, timeout)
		case <-ticker.C:
		}
	}
}

// WaitForDeletion polls until the compute API returns 404 for the server or
// reports it as DELETED.
func (s *ServerService) WaitForDeletion(ctx context.Context, id string, interval, timeout time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w, got %s", ErrInvalidInterval, interval)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		server, err := servers.Get(ctx, s.client.service, id).Extract()
		switch {
		case IsNotFound(err):
			return nil
		case err != nil && ctx.Err() == nil:
			return fmt.Errorf("failed to poll server %s: %w", id, err)
		case err == nil && server.Status == StatusDeleted:
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: server %s still present after %s", ErrBuildTimeout, id, timeout)
		case <-ticker.C:
		}
	}
}
