package test

import (
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"

	"github.com/celestiaorg/whitebox/internal/datautils"
	"github.com/celestiaorg/whitebox/internal/logger"
)

// ServerOption customizes CreateServer.
type ServerOption func(*serverRequest)

type serverRequest struct {
	opts      servers.CreateOpts
	waitUntil string
}

// WithName sets the server name instead of a random one.
func WithName(name string) ServerOption {
	return func(r *serverRequest) {
		r.opts.Name = name
	}
}

// WithImage boots from image instead of image_ref.
func WithImage(image string) ServerOption {
	return func(r *serverRequest) {
		r.opts.ImageRef = image
	}
}

// WithFlavor uses flavor instead of flavor_ref.
func WithFlavor(flavor string) ServerOption {
	return func(r *serverRequest) {
		r.opts.FlavorRef = flavor
	}
}

// WithWaitUntil blocks until the server reaches status.
func WithWaitUntil(status string) ServerOption {
	return func(r *serverRequest) {
		r.waitUntil = status
	}
}

// WithCreateOpts starts from opts, e.g. to set networks or metadata. Name,
// image and flavor left empty still get their defaults.
func WithCreateOpts(opts servers.CreateOpts) ServerOption {
	return func(r *serverRequest) {
		r.opts = opts
	}
}

// CreateServer boots a server and registers it for deletion on teardown. The
// name defaults to a random one derived from the suite name, and image and
// flavor default to image_ref and flavor_ref.
func (s *ComputeWhiteboxTest) CreateServer(opts ...ServerOption) (*servers.Server, error) {
	req := &serverRequest{}
	for _, opt := range opts {
		opt(req)
	}
	if req.opts.Name == "" {
		req.opts.Name = datautils.RandName(s.name + "-instance")
	}
	if req.opts.ImageRef == "" {
		req.opts.ImageRef = s.ImageRef
	}
	if req.opts.FlavorRef == "" {
		req.opts.FlavorRef = s.FlavorRef
	}

	ctx := s.Context()
	created, err := s.Servers.Create(ctx, req.opts)
	if err != nil {
		return nil, err
	}

	if req.waitUntil != "" {
		if _, err := s.Servers.WaitForStatus(ctx, created.ID, req.waitUntil, s.BuildInterval, s.BuildTimeout); err != nil {
			s.SetResource(req.opts.Name, created)
			return nil, fmt.Errorf("server %s: %w", req.opts.Name, err)
		}
	}

	server, err := s.Servers.Get(ctx, created.ID)
	if err != nil {
		s.SetResource(req.opts.Name, created)
		return nil, err
	}
	server.AdminPass = created.AdminPass

	s.SetResource(req.opts.Name, server)
	logger.InfoWithFields("Created server", map[string]interface{}{
		"server_id": server.ID,
		"name":      server.Name,
		"status":    server.Status,
	})
	return server, nil
}
