// Package api provides the HTTP surface of the toximcp server.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/toximcp/toximcp/internal/service/tools"
	"github.com/toximcp/toximcp/internal/telemetry"
	"github.com/toximcp/toximcp/pkg/types"
	"github.com/toximcp/toximcp/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	V0PathPrefix    = "/v0"
	V0ApiPathPrefix = "/api" + V0PathPrefix
)

type ServerOptions struct {
	// Port is the HTTP port to bind the server to
	Port string

	// MCPServer serves the tool catalog over the streamable http transport.
	MCPServer *server.MCPServer
	// SseMCPServer serves the same catalog over the SSE transport.
	// SSE is supported for older clients and is kept on its own server instance so that its
	// sessions never mix with streamable http ones.
	SseMCPServer *server.MCPServer

	ToolService *tools.ToolService

	// ToxiproxyURL is reported by the metadata endpoint.
	ToxiproxyURL string

	OtelProviders *telemetry.Providers
	Logger        *zap.Logger
}

// Server is the HTTP server exposing the MCP transports and the JSON API.
type Server struct {
	port   string
	router *gin.Engine

	mcpServer    *server.MCPServer
	sseMcpServer *server.MCPServer

	toolService  *tools.ToolService
	toxiproxyURL string

	otelProviders *telemetry.Providers
	logger        *zap.Logger
}

// NewServer initializes a new Gin server for the toximcp MCP transports
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts.MCPServer == nil || opts.SseMCPServer == nil {
		return nil, fmt.Errorf("both the streamable http and the SSE MCP servers are required")
	}
	if opts.ToolService == nil {
		return nil, fmt.Errorf("tool service is required")
	}

	s := &Server{
		port:          opts.Port,
		mcpServer:     opts.MCPServer,
		sseMcpServer:  opts.SseMCPServer,
		toolService:   opts.ToolService,
		toxiproxyURL:  opts.ToxiproxyURL,
		otelProviders: opts.OtelProviders,
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	r, err := s.setupRouter()
	if err != nil {
		return nil, err
	}
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the Gin server (blocking call)
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("port", s.port))
	if err := s.router.Run(":" + s.port); err != nil {
		return fmt.Errorf("failed to run the server: %w", err)
	}
	return nil
}

// setupRouter sets up the Gin router with the MCP transports and API endpoints.
func (s *Server) setupRouter() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	// if otel is enabled, setup prometheus metrics endpoint
	if s.otelProviders != nil && s.otelProviders.IsEnabled() {
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET(
		"/health",
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
	)

	r.GET(
		"/metadata",
		func(c *gin.Context) {
			m := &types.ServerMetadata{
				Version:      version.GetVersion(),
				ToxiproxyURL: s.toxiproxyURL,
			}
			c.JSON(http.StatusOK, m)
		},
	)

	streamableHTTPServer := server.NewStreamableHTTPServer(s.mcpServer)
	r.Any("/mcp", gin.WrapH(streamableHTTPServer))

	sseServer := server.NewSSEServer(s.sseMcpServer)
	r.Any("/sse", gin.WrapH(sseServer.SSEHandler()))
	r.Any("/message", gin.WrapH(sseServer.MessageHandler()))

	apiV0 := r.Group(V0ApiPathPrefix)
	{
		apiV0.GET("/tools", s.listToolsHandler())
		apiV0.GET("/tool", s.getToolHandler())
		apiV0.POST("/tools/invoke", s.invokeToolHandler())
	}

	return r, nil
}

// requestLogger logs every HTTP request with zap.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug(
			"http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
