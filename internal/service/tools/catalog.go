package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/toximcp/toximcp/pkg/types"
)

// ErrToolNotFound is returned when a tool name is not part of the catalog.
var ErrToolNotFound = errors.New("tool not found")

// catalogEntry is one tool of the catalog together with its ready-to-serve handler.
type catalogEntry struct {
	tool mcp.Tool

	// handler validates the arguments, runs the tool and records the call.
	handler server.ToolHandlerFunc
}

var directionOption = mcp.WithString(
	"direction",
	mcp.Enum(string(types.StreamUpstream), string(types.StreamDownstream)),
	mcp.Description("Direction to apply toxic (defaults to 'downstream')"),
)

var toxicityOption = mcp.WithNumber(
	"toxicity",
	mcp.Min(0),
	mcp.Max(1),
	mcp.Description("Probability of applying toxic (0.0 to 1.0, defaults to 1.0)"),
)

// maxAttributeValue bounds the numeric toxic attributes so they always fit the integers Toxiproxy stores.
const maxAttributeValue = math.MaxInt32

// portRange constrains a property to a whole TCP port number, starting at lowest.
// A lowest of 0 lets callers pass 0 to mean "use the default".
func portRange(lowest float64) mcp.PropertyOption {
	return func(schema map[string]any) {
		mcp.Min(lowest)(schema)
		mcp.Max(65535)(schema)
		mcp.MultipleOf(1)(schema)
	}
}

// attributeRange constrains a toxic attribute to a non-negative whole number.
func attributeRange() mcp.PropertyOption {
	return func(schema map[string]any) {
		mcp.Min(0)(schema)
		mcp.Max(maxAttributeValue)(schema)
		mcp.MultipleOf(1)(schema)
	}
}

// toolDefinition pairs a declared tool with its unwrapped handler.
type toolDefinition struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// definitions returns every tool of the catalog, in the order they are listed to clients.
func (s *ToolService) definitions() []toolDefinition {
	return []toolDefinition{
		{
			mcp.NewTool("check_toxiproxy_status",
				mcp.WithTitleAnnotation("Check Toxiproxy Status"),
				mcp.WithDescription("Check if the Toxiproxy server is running and accessible"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			s.checkStatus,
		},
		{
			mcp.NewTool("create_db_proxy",
				mcp.WithTitleAnnotation("Create Database Proxy"),
				mcp.WithDescription("Create a Toxiproxy proxy for a PostgreSQL database with port forwarding setup. "+
					"You must specify the database port."),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name for the proxy (e.g., 'postgres_proxy')")),
				mcp.WithNumber("dbPort", mcp.Required(), portRange(1), mcp.Description("Database port (the actual database port) - REQUIRED")),
				mcp.WithNumber("proxyPort", portRange(0), mcp.Description("Proxy listen port (defaults to dbPort + 10000)")),
				mcp.WithString("upstream", mcp.Description("Upstream address (defaults to 'dev.localhost:dbPort')")),
			),
			s.createDBProxy,
		},
		{
			mcp.NewTool("create_rabbitmq_proxy",
				mcp.WithTitleAnnotation("Create RabbitMQ Proxy"),
				mcp.WithDescription("Create a Toxiproxy proxy for RabbitMQ with port forwarding setup"),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name for the proxy (e.g., 'rabbitmq_proxy')")),
				mcp.WithNumber("amqpPort", portRange(0), mcp.Description("RabbitMQ AMQP port (defaults to 5672)")),
				mcp.WithNumber("proxyPort", portRange(0), mcp.Description("Proxy listen port (defaults to amqpPort + 10000)")),
				mcp.WithString("upstream", mcp.Description("Upstream address (defaults to 'dev.localhost:amqpPort')")),
			),
			s.createRabbitMQProxy,
		},
		{
			mcp.NewTool("list_proxies",
				mcp.WithTitleAnnotation("List Proxies"),
				mcp.WithDescription("List all Toxiproxy proxies and their toxics"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			s.listProxies,
		},
		{
			mcp.NewTool("delete_proxy",
				mcp.WithTitleAnnotation("Delete Proxy"),
				mcp.WithDescription("Delete a Toxiproxy proxy entirely"),
				mcp.WithDestructiveHintAnnotation(true),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy to delete")),
			),
			s.deleteProxy,
		},
		{
			mcp.NewTool("set_proxy_enabled",
				mcp.WithTitleAnnotation("Enable or Disable Proxy"),
				mcp.WithDescription("Enable or disable a Toxiproxy proxy. "+
					"A disabled proxy closes its connections and refuses new ones, simulating a service outage."),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy")),
				mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true to enable the proxy, false to disable it")),
			),
			s.setProxyEnabled,
		},
		{
			mcp.NewTool("add_latency_toxic",
				mcp.WithTitleAnnotation("Add Latency Toxic"),
				mcp.WithDescription("Add a latency toxic to simulate network delays"),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy to add the toxic to")),
				mcp.WithString("toxicName", mcp.Description("Name for the toxic (defaults to 'latency_toxic')")),
				mcp.WithNumber("latency", mcp.Required(), attributeRange(), mcp.Description("Latency in milliseconds")),
				mcp.WithNumber("jitter", attributeRange(), mcp.Description("Jitter in milliseconds (defaults to 0)")),
				toxicityOption,
				directionOption,
			),
			s.addLatencyToxic,
		},
		{
			mcp.NewTool("add_bandwidth_toxic",
				mcp.WithTitleAnnotation("Add Bandwidth Toxic"),
				mcp.WithDescription("Add a bandwidth limiting toxic to simulate slow connections"),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy to add the toxic to")),
				mcp.WithString("toxicName", mcp.Description("Name for the toxic (defaults to 'bandwidth_toxic')")),
				mcp.WithNumber("rate", mcp.Required(), attributeRange(), mcp.Description("Bandwidth limit in KB/s")),
				toxicityOption,
				directionOption,
			),
			s.addBandwidthToxic,
		},
		{
			mcp.NewTool("add_timeout_toxic",
				mcp.WithTitleAnnotation("Add Timeout Toxic"),
				mcp.WithDescription("Add a timeout toxic to simulate connection timeouts"),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy to add the toxic to")),
				mcp.WithString("toxicName", mcp.Description("Name for the toxic (defaults to 'timeout_toxic')")),
				mcp.WithNumber("timeout", mcp.Required(), attributeRange(),
					mcp.Description("Timeout in milliseconds (0 means data is dropped until toxic is removed)")),
				toxicityOption,
				directionOption,
			),
			s.addTimeoutToxic,
		},
		{
			mcp.NewTool("remove_toxic",
				mcp.WithTitleAnnotation("Remove Toxic"),
				mcp.WithDescription("Remove a specific toxic from a proxy"),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy")),
				mcp.WithString("toxicName", mcp.Required(), mcp.Description("Name of the toxic to remove")),
			),
			s.removeToxic,
		},
		{
			mcp.NewTool("reset_proxies",
				mcp.WithTitleAnnotation("Reset All Proxies"),
				mcp.WithDescription("Remove all toxics from all proxies and enable them"),
				mcp.WithIdempotentHintAnnotation(true),
			),
			s.resetProxies,
		},
		{
			mcp.NewTool("troubleshoot_connectivity",
				mcp.WithTitleAnnotation("Troubleshoot Connectivity"),
				mcp.WithDescription("Diagnose network connectivity issues between application, proxy, and upstream services"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("proxyName", mcp.Description("Name of the proxy to troubleshoot (optional)")),
				mcp.WithBoolean("testUpstream", mcp.Description("Test direct upstream connectivity (defaults to true)")),
			),
			s.troubleshootConnectivity,
		},
		{
			mcp.NewTool("check_iptables_rules",
				mcp.WithTitleAnnotation("Check iptables Rules"),
				mcp.WithDescription("Check current iptables NAT rules and provide cleanup commands"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			s.checkIptablesRules,
		},
		{
			mcp.NewTool("generate_test_commands",
				mcp.WithTitleAnnotation("Generate Test Commands"),
				mcp.WithDescription("Generate commands to test your proxy setup and diagnose issues"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("proxyName", mcp.Required(), mcp.Description("Name of the proxy to test")),
				mcp.WithNumber("dbPort", portRange(0), mcp.Description("Database port (for database connections)")),
				mcp.WithString("testType",
					mcp.Enum(string(types.TestTypeDatabase), string(types.TestTypeRabbitMQ), string(types.TestTypeHTTP)),
					mcp.Description("Type of service to test (defaults to 'database')"),
				),
			),
			s.generateTestCommands,
		},
		{
			mcp.NewTool("show_troubleshooting_guide",
				mcp.WithTitleAnnotation("Show Troubleshooting Guide"),
				mcp.WithDescription("Display comprehensive troubleshooting guide for common Toxiproxy issues"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			s.showTroubleshootingGuide,
		},
	}
}

// buildCatalog compiles the input schema of every tool and wraps its handler.
func (s *ToolService) buildCatalog() error {
	defs := s.definitions()
	s.catalog = make([]*catalogEntry, 0, len(defs))
	s.byName = make(map[string]*catalogEntry, len(defs))

	for _, d := range defs {
		schema, err := compileInputSchema(d.tool)
		if err != nil {
			return fmt.Errorf("failed to compile input schema of tool %s: %w", d.tool.Name, err)
		}
		e := &catalogEntry{
			tool:    d.tool,
			handler: s.instrument(d.tool.Name, validated(d.tool.Name, schema, d.handler)),
		}
		s.catalog = append(s.catalog, e)
		s.byName[d.tool.Name] = e
	}
	return nil
}

// Register adds every tool of the catalog to the given MCP server.
func (s *ToolService) Register(mcpServer *server.MCPServer) {
	for _, e := range s.catalog {
		mcpServer.AddTool(e.tool, e.handler)
	}
}

// ListTools returns the tools of the catalog, in catalog order.
func (s *ToolService) ListTools() ([]types.Tool, error) {
	out := make([]types.Tool, 0, len(s.catalog))
	for _, e := range s.catalog {
		t, err := convertMcpToolToTypes(e.tool)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTool returns a tool of the catalog by name.
func (s *ToolService) GetTool(name string) (*types.Tool, error) {
	e, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	t, err := convertMcpToolToTypes(e.tool)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// InvokeTool calls a tool of the catalog directly, without going through an MCP transport.
// The call is validated and recorded exactly like a call received over MCP.
func (s *ToolService) InvokeTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	e, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return e.handler(ctx, req)
}

// ResultText returns the text carried by a tool result.
func ResultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	parts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// convertMcpToolToTypes converts an mcp.Tool into the catalog's own tool description.
func convertMcpToolToTypes(t mcp.Tool) (types.Tool, error) {
	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return types.Tool{}, fmt.Errorf("failed to marshal input schema of tool %s: %w", t.Name, err)
	}
	var schema types.ToolInputSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return types.Tool{}, fmt.Errorf("failed to unmarshal input schema of tool %s: %w", t.Name, err)
	}
	return types.Tool{
		Name:        t.Name,
		Title:       t.Annotations.Title,
		Description: t.Description,
		InputSchema: schema,
	}, nil
}

// compileInputSchema compiles the declared input schema of a tool.
// Unknown arguments are rejected.
func compileInputSchema(t mcp.Tool) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return nil, err
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("input schema of tool %s is not an object", t.Name)
	}
	doc["additionalProperties"] = false

	c := jsonschema.NewCompiler()
	url := "https://toximcp.local/tools/" + t.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}
