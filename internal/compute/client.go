// Package compute wraps the gophercloud compute v2 client used by whitebox tests
// to provision and inspect servers.
package compute

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"

	"github.com/celestiaorg/whitebox/internal/config"
	"github.com/celestiaorg/whitebox/internal/logger"
)

// ErrBuildTimeout is returned when a server does not reach the wanted status in time.
var ErrBuildTimeout = errors.New("server build timed out")

// ErrInvalidInterval is returned when a poll interval is not positive.
var ErrInvalidInterval = errors.New("poll interval must be positive")

// ServerFaultError reports a server that went to ERROR while being waited on.
type ServerFaultError struct {
	ID      string
	Status  string
	Code    int
	Message string
}

// Error implements the error interface for ServerFaultError
func (e *ServerFaultError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server %s entered %s status", e.ID, e.Status)
	}
	return fmt.Sprintf("server %s entered %s status: %s (code: %d)", e.ID, e.Status, e.Message, e.Code)
}

// IsNotFound returns true if err is an HTTP 404 from the compute API
func IsNotFound(err error) bool {
	return gophercloud.ResponseCodeIs(err, http.StatusNotFound)
}

// Client is an authenticated compute v2 client
type Client struct {
	service *gophercloud.ServiceClient
}

// NewClient authenticates against the identity endpoint and binds to the
// compute endpoint of the configured region.
func NewClient(ctx context.Context, identity config.IdentityConfig) (*Client, error) {
	if identity.URI == "" {
		return nil, fmt.Errorf("identity.uri is required")
	}

	opts := gophercloud.AuthOptions{
		IdentityEndpoint: identity.URI,
		Username:         identity.Username,
		Password:         identity.Password,
		TenantName:       identity.TenantName,
		DomainName:       identity.DomainName,
	}

	logger.Debugf("Authenticating compute client: endpoint=%s, user=%s", identity.URI, identity.Username)
	provider, err := openstack.AuthenticatedClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	service, err := openstack.NewComputeV2(provider, gophercloud.EndpointOpts{Region: identity.Region})
	if err != nil {
		return nil, fmt.Errorf("failed to locate compute endpoint in region %s: %w", identity.Region, err)
	}

	return &Client{service: service}, nil
}

// NewClientFromService wraps an already configured service client
func NewClientFromService(service *gophercloud.ServiceClient) *Client {
	return &Client{service: service}
}

// ServiceClient exposes the underlying gophercloud client for calls this package does not wrap
func (c *Client) ServiceClient() *gophercloud.ServiceClient {
	return c.service
}

// Servers returns the server service
func (c *Client) Servers() *ServerService {
	return newServerService(c)
}
