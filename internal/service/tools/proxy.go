package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toximcp/toximcp/pkg/types"
)

const (
	// proxyPortOffset is added to a service's port to derive the proxy's listen port by default.
	proxyPortOffset = 10000

	defaultAMQPPort     = 5672
	defaultUpstreamHost = "dev.localhost"
)

// proxySpec is a proxy creation request with every default resolved.
type proxySpec struct {
	name string

	// servicePort is the port applications use to reach the real service.
	// Traffic to it is redirected to proxyPort by an iptables rule.
	servicePort int
	proxyPort   int
	upstream    string
}

func (p *proxySpec) listen() string {
	return fmt.Sprintf("0.0.0.0:%d", p.proxyPort)
}

func (p *proxySpec) request() *types.CreateProxyRequest {
	return &types.CreateProxyRequest{
		Name:     p.name,
		Listen:   p.listen(),
		Upstream: p.upstream,
		Enabled:  true,
	}
}

// redirectRule returns the iptables command that adds (-A) or deletes (-D) the port redirect for this proxy.
func (p *proxySpec) redirectRule(op string) string {
	return fmt.Sprintf(
		"sudo iptables -t nat %s PREROUTING -p tcp --dport %d -j REDIRECT --to-port %d",
		op, p.servicePort, p.proxyPort,
	)
}

// resolveServiceProxy resolves the arguments shared by the proxy creation tools.
// servicePort is the already resolved port of the proxied service.
func resolveServiceProxy(args arguments, servicePort int) (*proxySpec, error) {
	name, err := args.requireString("name")
	if err != nil {
		return nil, err
	}
	return &proxySpec{
		name:        name,
		servicePort: servicePort,
		proxyPort:   args.portOr("proxyPort", servicePort+proxyPortOffset),
		upstream:    args.stringOr("upstream", fmt.Sprintf("%s:%d", defaultUpstreamHost, servicePort)),
	}, nil
}

func resolveDBProxy(args arguments) (*proxySpec, error) {
	dbPort, err := args.requireNumber("dbPort")
	if err != nil {
		return nil, err
	}
	return resolveServiceProxy(args, int(dbPort))
}

func resolveRabbitMQProxy(args arguments) (*proxySpec, error) {
	return resolveServiceProxy(args, args.portOr("amqpPort", defaultAMQPPort))
}

func (s *ToolService) createDBProxy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := resolveDBProxy(req.GetArguments())
	if err != nil {
		return failure("Failed to create database proxy!", err, ""), nil
	}
	return s.createServiceProxy(ctx, "Database", "database", spec), nil
}

func (s *ToolService) createRabbitMQProxy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := resolveRabbitMQProxy(req.GetArguments())
	if err != nil {
		return failure("Failed to create RabbitMQ proxy!", err, ""), nil
	}
	return s.createServiceProxy(ctx, "RabbitMQ", "RabbitMQ", spec), nil
}

// createServiceProxy creates the proxy described by spec and renders the port forwarding instructions.
// kind names the service in the success title and subject names it in the failure title.
func (s *ToolService) createServiceProxy(ctx context.Context, kind, subject string, spec *proxySpec) *mcp.CallToolResult {
	if _, err := s.client.CreateProxy(ctx, spec.request()); err != nil {
		return failure(fmt.Sprintf("Failed to create %s proxy!", subject), err, serverHint(err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s proxy created successfully!\n\n", kind)
	b.WriteString("**Proxy Details:**\n")
	fmt.Fprintf(&b, "- Name: %s\n", spec.name)
	fmt.Fprintf(&b, "- Listen: %s\n", spec.listen())
	fmt.Fprintf(&b, "- Upstream: %s\n", spec.upstream)
	b.WriteString("- Status: Enabled\n\n")
	b.WriteString("**Next Step - Port Forwarding:**\n")
	fmt.Fprintf(&b, "Run this command to redirect traffic from port %d to the proxy:\n\n", spec.servicePort)
	fmt.Fprintf(&b, "```bash\n%s\n```\n\n", spec.redirectRule("-A"))
	b.WriteString("**To remove the rule later:**\n")
	fmt.Fprintf(&b, "```bash\n%s\n```", spec.redirectRule("-D"))

	return mcp.NewToolResultText(b.String())
}

func (s *ToolService) listProxies(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	proxies, err := s.client.ListProxies(ctx)
	if err != nil {
		return failure("Failed to list proxies!", err, serverHint(err)), nil
	}

	if len(proxies) == 0 {
		return mcp.NewToolResultText(
			"📭 No proxies found.\n\nUse 'create_db_proxy' to create your first proxy.",
		), nil
	}

	var b strings.Builder
	b.WriteString("📋 **Active Proxies:**\n\n")
	for _, name := range proxyNames(proxies) {
		writeProxy(&b, name, proxies[name])
	}
	return mcp.NewToolResultText(b.String()), nil
}

// writeProxy renders one proxy of the proxy listing.
func writeProxy(b *strings.Builder, name string, p *types.Proxy) {
	status := "❌ Disabled"
	if p.Enabled {
		status = "✅ Enabled"
	}

	fmt.Fprintf(b, "**%s**\n", name)
	fmt.Fprintf(b, "- Listen: %s\n", p.Listen)
	fmt.Fprintf(b, "- Upstream: %s\n", p.Upstream)
	fmt.Fprintf(b, "- Status: %s\n", status)

	if len(p.Toxics) == 0 {
		b.WriteString("- Toxics: None\n\n")
		return
	}

	b.WriteString("- Toxics:\n")
	for _, t := range p.Toxics {
		fmt.Fprintf(b, "  - %s (%s, %s, %s%%)", t.Name, t.Type, t.Stream, percent(t.Toxicity))
		if attrs := formatAttributes(t.Attributes); attrs != "" {
			b.WriteString(" - " + attrs)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (s *ToolService) deleteProxy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	proxyName, err := arguments(req.GetArguments()).requireString("proxyName")
	if err != nil {
		return failure("Failed to delete proxy!", err, ""), nil
	}

	if err := s.client.DeleteProxy(ctx, proxyName); err != nil {
		return failure("Failed to delete proxy!", err, proxyHint(err, proxyName)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Proxy '%s' deleted successfully!\n\n"+
			"⚠️  Remember to remove any iptables rules you created for this proxy.",
		proxyName,
	)), nil
}

func (s *ToolService) setProxyEnabled(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())
	proxyName, err := args.requireString("proxyName")
	if err != nil {
		return failure("Failed to update proxy!", err, ""), nil
	}
	enabled, ok := args.boolean("enabled")
	if !ok {
		return failure("Failed to update proxy!", fmt.Errorf("required argument %q is missing", "enabled"), ""), nil
	}

	p, err := s.client.UpdateProxy(ctx, proxyName, &types.UpdateProxyRequest{Enabled: &enabled})
	if err != nil {
		return failure("Failed to update proxy!", err, proxyHint(err, proxyName)), nil
	}

	if enabled {
		return mcp.NewToolResultText(fmt.Sprintf(
			"✅ Proxy '%s' enabled!\n\n- Listen: %s\n- Upstream: %s\n\nTraffic is relayed again and its toxics apply.",
			proxyName, p.Listen, p.Upstream,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Proxy '%s' disabled!\n\n- Listen: %s\n- Upstream: %s\n\n"+
			"Existing connections were closed and new connections to the proxy will be refused.",
		proxyName, p.Listen, p.Upstream,
	)), nil
}
