package mocks

import (
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gophercloud/gophercloud/v2"

	"github.com/celestiaorg/whitebox/internal/compute"
)

// Default values reported by the fake compute API
const (
	DefaultTenantID     = "f3c2b5d4a1e04c6f9b7d8e2a1c3b5d7f"
	DefaultAdminPass    = "fake-admin-pass"
	DefaultFaultCode    = 500
	DefaultFaultMessage = "No valid host was found."
)

// CreateRequest records the body of a server create call
type CreateRequest struct {
	Name      string `json:"name"`
	ImageRef  string `json:"imageRef"`
	FlavorRef string `json:"flavorRef"`
}

type fakeServer struct {
	CreateRequest
	ID     string
	Status string
	polls  int
}

// NovaServer is an in-memory compute API served through fiber. New servers
// start in BUILD and move to ACTIVE (or ERROR when FailBuild is set) after
// BuildPolls status reads.
type NovaServer struct {
	App    *fiber.App
	Server *httptest.Server

	mu         sync.Mutex
	buildPolls int
	failBuild  bool
	servers    map[string]*fakeServer
	creates    []CreateRequest
	deletes    []string
}

// NewNovaServer starts a fake compute API on a local test listener
func NewNovaServer() *NovaServer {
	n := &NovaServer{
		servers: make(map[string]*fakeServer),
	}

	n.App = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	n.App.Use(requestLogger())
	n.App.Post("/servers", n.createServer)
	n.App.Get("/servers/detail", n.listServers)
	n.App.Get("/servers/:id", n.getServer)
	n.App.Delete("/servers/:id", n.deleteServer)

	n.Server = httptest.NewServer(adaptor.FiberApp(n.App))
	return n
}

// Close shuts the listener down
func (n *NovaServer) Close() {
	n.Server.Close()
}

// URL returns the base URL of the fake endpoint
func (n *NovaServer) URL() string {
	return n.Server.URL
}

// ServiceClient returns a gophercloud client bound to the fake endpoint
func (n *NovaServer) ServiceClient() *gophercloud.ServiceClient {
	return &gophercloud.ServiceClient{
		ProviderClient: &gophercloud.ProviderClient{TokenID: "fake-token"},
		Endpoint:       n.Server.URL + "/",
	}
}

// Client returns a compute client bound to the fake endpoint
func (n *NovaServer) Client() *compute.Client {
	return compute.NewClientFromService(n.ServiceClient())
}

// SetBuildPolls sets how many reads a new server answers with BUILD
func (n *NovaServer) SetBuildPolls(polls int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.buildPolls = polls
}

// SetFailBuild makes servers created afterwards end in ERROR
func (n *NovaServer) SetFailBuild(fail bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failBuild = fail
}

// SetStatus forces the status of an existing server
func (n *NovaServer) SetStatus(id, status string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	s, ok := n.servers[id]
	if ok {
		s.Status = status
	}
	return ok
}

// ServerCount returns the number of servers that have not been deleted
func (n *NovaServer) ServerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.servers)
}

// Creates returns every create request received, oldest first
func (n *NovaServer) Creates() []CreateRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]CreateRequest(nil), n.creates...)
}

// Deletes returns the IDs of deleted servers in deletion order
func (n *NovaServer) Deletes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.deletes...)
}

func (n *NovaServer) createServer(c *fiber.Ctx) error {
	var body struct {
		Server CreateRequest `json:"server"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return novaError(c, fiber.StatusBadRequest, "badRequest", "Malformed request body")
	}
	if body.Server.Name == "" {
		return novaError(c, fiber.StatusBadRequest, "badRequest", "Server name is not defined")
	}
	if body.Server.FlavorRef == "" {
		return novaError(c, fiber.StatusBadRequest, "badRequest", "Missing flavorRef attribute")
	}

	n.mu.Lock()
	s := &fakeServer{
		CreateRequest: body.Server,
		ID:            uuid.NewString(),
		Status:        compute.StatusBuild,
	}
	n.servers[s.ID] = s
	n.creates = append(n.creates, body.Server)
	n.mu.Unlock()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"server": fiber.Map{
			"id":        s.ID,
			"adminPass": DefaultAdminPass,
		},
	})
}

func (n *NovaServer) getServer(c *fiber.Ctx) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.servers[c.Params("id")]
	if !ok {
		return novaError(c, fiber.StatusNotFound, "itemNotFound", "Instance could not be found")
	}
	n.advance(s)
	return c.JSON(fiber.Map{"server": n.view(s)})
}

func (n *NovaServer) listServers(c *fiber.Ctx) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	ids := make([]string, 0, len(n.servers))
	for id := range n.servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	views := make([]fiber.Map, 0, len(ids))
	for _, id := range ids {
		views = append(views, n.view(n.servers[id]))
	}
	return c.JSON(fiber.Map{"servers": views})
}

func (n *NovaServer) deleteServer(c *fiber.Ctx) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := c.Params("id")
	if _, ok := n.servers[id]; !ok {
		return novaError(c, fiber.StatusNotFound, "itemNotFound", "Instance could not be found")
	}
	delete(n.servers, id)
	n.deletes = append(n.deletes, id)
	return c.SendStatus(fiber.StatusNoContent)
}

// advance moves a building server along; the caller holds n.mu.
func (n *NovaServer) advance(s *fakeServer) {
	if s.Status != compute.StatusBuild {
		return
	}
	s.polls++
	if s.polls <= n.buildPolls {
		return
	}
	if n.failBuild {
		s.Status = compute.StatusError
		return
	}
	s.Status = compute.StatusActive
}

func (n *NovaServer) view(s *fakeServer) fiber.Map {
	v := fiber.Map{
		"id":        s.ID,
		"name":      s.Name,
		"status":    s.Status,
		"tenant_id": DefaultTenantID,
		"image":     fiber.Map{"id": s.ImageRef},
		"flavor":    fiber.Map{"id": s.FlavorRef},
		"metadata":  fiber.Map{},
	}
	if s.Status == compute.StatusError {
		v["fault"] = fiber.Map{
			"code":    DefaultFaultCode,
			"message": DefaultFaultMessage,
		}
	}
	return v
}

func novaError(c *fiber.Ctx, status int, kind, message string) error {
	return c.Status(status).JSON(fiber.Map{
		kind: fiber.Map{
			"code":    status,
			"message": message,
		},
	})
}
