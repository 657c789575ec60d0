package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/toximcp/toximcp/internal/api"
	"github.com/toximcp/toximcp/internal/service/tools"
	"github.com/toximcp/toximcp/internal/telemetry"
	"github.com/toximcp/toximcp/pkg/types"
	"github.com/toximcp/toximcp/pkg/version"
	"go.uber.org/zap"
)

const (
	BindPortEnvVar  = "PORT"
	BindPortDefault = "8080"

	TransportEnvVar        = "MCP_TRANSPORT"
	TelemetryEnabledEnvVar = "OTEL_ENABLED"
)

const mcpServerName = "toxiproxy-mcp"

var (
	startServerCmdBindPort  string
	startServerCmdTransport string
)

var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the toximcp MCP server",
	Long: "Starts the MCP server exposing the Toxiproxy tools.\n\n" +
		"By default the server speaks MCP over stdio, which is what most MCP clients expect when they\n" +
		"launch toximcp as a subprocess.\n" +
		"With the streamable_http or sse transport, an HTTP server is started instead. It serves\n" +
		"streamable http on /mcp, SSE on /sse and /message, and a JSON API under /api/v0.\n\n" +
		"The Toxiproxy admin API is expected at http://localhost:8474 unless TOXIPROXY_URL or\n" +
		"--toxiproxy-url says otherwise.\n" +
		"Set OTEL_ENABLED=true to record tool call metrics, exposed on /metrics by the HTTP server.\n",
	RunE: runStartServer,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "1",
	},
}

func init() {
	startServerCmd.Flags().StringVar(
		&startServerCmdBindPort,
		"port",
		"",
		fmt.Sprintf("port to bind the HTTP server to (overrides env var %s)", BindPortEnvVar),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdTransport,
		"transport",
		"",
		fmt.Sprintf(
			"MCP transport: '%s', '%s' or '%s' (overrides env var %s, default %s)",
			types.TransportStdio, types.TransportStreamableHTTP, types.TransportSSE,
			TransportEnvVar, types.TransportStdio,
		),
	)

	rootCmd.AddCommand(startServerCmd)
}

// getTransport returns the MCP transport to serve
// precedence: command line flag > environment variable > default
func getTransport() (types.Transport, error) {
	t := startServerCmdTransport
	if t == "" {
		t = strings.ToLower(os.Getenv(TransportEnvVar))
	}
	return types.ValidateTransport(t)
}

// isTelemetryEnabled returns true if telemetry should be enabled.
// Telemetry is disabled unless the env var says otherwise.
func isTelemetryEnabled() (bool, error) {
	envTelemetryEnabled := os.Getenv(TelemetryEnabledEnvVar)
	if envTelemetryEnabled == "" {
		return false, nil
	}

	switch strings.ToLower(envTelemetryEnabled) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf(
			"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'",
			TelemetryEnabledEnvVar, envTelemetryEnabled,
		)
	}
}

// getBindPort returns the TCP port to bind the HTTP server to
// precedence: command line flag > environment variable > default
func getBindPort() string {
	port := startServerCmdBindPort
	if port == "" {
		port = os.Getenv(BindPortEnvVar)
	}
	if port == "" {
		port = BindPortDefault
	}
	return port
}

func newMCPServer(toolService *tools.ToolService) *server.MCPServer {
	s := server.NewMCPServer(
		mcpServerName,
		version.GetVersion(),
		server.WithToolCapabilities(true),
	)
	toolService.Register(s)
	return s
}

func runStartServer(cmd *cobra.Command, args []string) error {
	transport, err := getTransport()
	if err != nil {
		return err
	}

	logger, err := newLogger(getLogLevel())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	telemetryEnabled, err := isTelemetryEnabled()
	if err != nil {
		return err
	}
	otelProviders, err := telemetry.Init(cmd.Context(), &telemetry.Config{
		ServiceName: "toximcp",
		Enabled:     telemetryEnabled,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Opentelemetry providers: %v", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(cmd.Context()); err != nil {
			logger.Warn("failed to shutdown opentelemetry providers", zap.Error(err))
		}
	}()

	// metrics are a no-op unless telemetry is enabled, so callers never check
	toolMetrics := telemetry.NewNoopCustomMetrics()
	if otelProviders.IsEnabled() {
		toolMetrics, err = telemetry.NewOtelCustomMetrics(otelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create tool metrics: %v", err)
		}
	}

	toolService, err := newToolService(logger, toolMetrics)
	if err != nil {
		return err
	}

	toxiproxyURL := getToxiproxyURL()
	logger.Info(
		"starting toximcp",
		zap.String("version", version.GetVersion()),
		zap.String("transport", string(transport)),
		zap.String("toxiproxy_url", toxiproxyURL),
		zap.Bool("telemetry", otelProviders.IsEnabled()),
	)

	if !transport.IsHTTP() {
		// stdout belongs to the protocol from here on
		if err := server.ServeStdio(newMCPServer(toolService)); err != nil {
			return fmt.Errorf("failed to serve MCP over stdio: %v", err)
		}
		return nil
	}

	bindPort := getBindPort()
	s, err := api.NewServer(&api.ServerOptions{
		Port:          bindPort,
		MCPServer:     newMCPServer(toolService),
		SseMCPServer:  newMCPServer(toolService),
		ToolService:   toolService,
		ToxiproxyURL:  toxiproxyURL,
		OtelProviders: otelProviders,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %v", err)
	}

	endpoint := "/mcp"
	if transport == types.TransportSSE {
		endpoint = "/sse"
	}
	cmd.Printf("toximcp HTTP server listening on :%s (MCP endpoint %s)\n\n", bindPort, endpoint)
	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to run the server: %v", err)
	}

	return nil
}
