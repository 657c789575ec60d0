// Package tools implements the toximcp tool catalog: MCP tools that drive a Toxiproxy server
// and render its replies as text for an AI agent.
package tools

import (
	"context"
	"errors"
	"net/url"

	"github.com/toximcp/toximcp/client"
	"github.com/toximcp/toximcp/internal/telemetry"
	"github.com/toximcp/toximcp/pkg/types"
	"go.uber.org/zap"
)

// ToxiproxyClient is the subset of the Toxiproxy administrative API used by the tools.
// It is satisfied by *client.Client.
type ToxiproxyClient interface {
	BaseURL() string

	Version(ctx context.Context) (string, error)

	ListProxies(ctx context.Context) (map[string]*types.Proxy, error)
	GetProxy(ctx context.Context, name string) (*types.Proxy, error)
	CreateProxy(ctx context.Context, req *types.CreateProxyRequest) (*types.Proxy, error)
	UpdateProxy(ctx context.Context, name string, req *types.UpdateProxyRequest) (*types.Proxy, error)
	DeleteProxy(ctx context.Context, name string) error

	CreateToxic(ctx context.Context, proxyName string, toxic *types.Toxic) (*types.Toxic, error)
	DeleteToxic(ctx context.Context, proxyName, toxicName string) error

	Reset(ctx context.Context) error
}

var _ ToxiproxyClient = (*client.Client)(nil)

// ServiceConfig holds the configuration parameters for initializing the ToolService.
type ServiceConfig struct {
	Client ToxiproxyClient

	// Logger is optional, a no-op logger is used if it is nil.
	Logger *zap.Logger

	// Metrics is optional, no-op metrics are used if it is nil.
	Metrics telemetry.CustomMetrics
}

// ToolService owns the tool catalog.
// Every tool handler is a function of its arguments and the Toxiproxy client, the service
// itself keeps no state between calls and is safe for concurrent use.
type ToolService struct {
	client  ToxiproxyClient
	logger  *zap.Logger
	metrics telemetry.CustomMetrics

	catalog []*catalogEntry
	byName  map[string]*catalogEntry
}

// NewToolService creates a new ToolService and builds its tool catalog.
func NewToolService(c *ServiceConfig) (*ToolService, error) {
	if c.Client == nil {
		return nil, errors.New("toxiproxy client is required")
	}

	s := &ToolService{
		client:  c.Client,
		logger:  c.Logger,
		metrics: c.Metrics,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewNoopCustomMetrics()
	}

	if err := s.buildCatalog(); err != nil {
		return nil, err
	}
	return s, nil
}

// adminURL returns the address of the Toxiproxy administrative API.
func (s *ToolService) adminURL() string {
	return s.client.BaseURL()
}

// defaultAdminPort is the port Toxiproxy serves its API on out of the box.
const defaultAdminPort = "8474"

// adminPort returns the TCP port of the Toxiproxy administrative API, as shown in shell commands.
func (s *ToolService) adminPort() string {
	u, err := url.Parse(s.client.BaseURL())
	if err != nil {
		return defaultAdminPort
	}
	if port := u.Port(); port != "" {
		return port
	}
	switch u.Scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return defaultAdminPort
	}
}
