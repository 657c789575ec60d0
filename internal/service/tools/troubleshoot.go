package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toximcp/toximcp/client"
	"github.com/toximcp/toximcp/pkg/types"
)

// troubleshootConnectivity renders a multi-section diagnostic.
// Each section reports its own failures, a failed section never aborts the ones after it.
// The proxy-specific section depends on the proxy list and is skipped if listing failed.
func (s *ToolService) troubleshootConnectivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())
	proxyName := args.stringOr("proxyName", "")
	testUpstream := args.boolOr("testUpstream", true)

	var b strings.Builder
	b.WriteString("🔍 **Connectivity Diagnostics**\n\n")

	b.WriteString("**1. Toxiproxy Server Status:**\n")
	proxies, listErr := s.writeServerDiagnostics(ctx, &b)

	if proxyName != "" {
		b.WriteString("**2. Proxy-Specific Checks:**\n")
		if listErr != nil {
			fmt.Fprintf(&b, "⏭️  Skipped checking proxy '%s': the proxy list could not be fetched\n\n", proxyName)
		} else {
			s.writeProxyDiagnostics(ctx, &b, proxyName, proxies, testUpstream)
		}
	}

	b.WriteString("**3. Network Troubleshooting Commands:**\n")
	b.WriteString("```bash\n")
	b.WriteString("# Check if ports are listening\n")
	fmt.Fprintf(&b, "netstat -tlnp | grep -E ':(%s|5432|5672)'\n\n", s.adminPort())
	b.WriteString("# Check iptables rules\n")
	b.WriteString("sudo iptables -t nat -L PREROUTING --line-numbers\n\n")
	b.WriteString("# Test direct connection to Toxiproxy\n")
	fmt.Fprintf(&b, "curl -v %s/version\n\n", s.adminURL())
	b.WriteString("# Check Docker containers\n")
	b.WriteString("docker ps | grep toxiproxy\n")
	b.WriteString("```\n\n")

	b.WriteString("**4. Common Issues & Solutions:**\n")
	b.WriteString("- **Connection refused**: Toxiproxy not running → Start Docker container\n")
	b.WriteString("- **Proxy not intercepting**: Missing iptables rule → Run the generated iptables command\n")
	b.WriteString("- **Application can't connect**: Wrong proxy port → Check proxy listen address\n")
	b.WriteString("- **Upstream unreachable**: Service down → Verify upstream service is running\n")
	b.WriteString("- **Toxics not working**: Proxy disabled → Enable proxy or check toxic configuration\n\n")

	return mcp.NewToolResultText(b.String()), nil
}

// writeServerDiagnostics renders the server status section and returns the proxy list it fetched.
// The returned error is non-nil if the proxy list is unavailable.
func (s *ToolService) writeServerDiagnostics(ctx context.Context, b *strings.Builder) (map[string]*types.Proxy, error) {
	version, versionErr := s.client.Version(ctx)
	if versionErr == nil {
		fmt.Fprintf(b, "✅ Toxiproxy server is running (v%s)\n", version)
	} else {
		fmt.Fprintf(b, "❌ Toxiproxy server issue: %s\n", errorMessage(versionErr))
	}

	proxies, listErr := s.client.ListProxies(ctx)
	if listErr == nil {
		fmt.Fprintf(b, "✅ Found %d active proxies\n\n", len(proxies))
	} else if versionErr == nil || !client.IsUnreachable(listErr) {
		// don't repeat the same unreachable error twice
		fmt.Fprintf(b, "❌ Failed to list proxies: %s\n\n", errorMessage(listErr))
	} else {
		b.WriteString("\n")
	}

	if versionErr != nil {
		b.WriteString("**Troubleshooting steps:**\n")
		fmt.Fprintf(b, "1. Start Toxiproxy: `%s`\n", startToxiproxyCommand)
		fmt.Fprintf(b, "2. Check if port %s is available: `lsof -i :%s`\n", s.adminPort(), s.adminPort())
		b.WriteString("3. Verify Docker is running: `docker ps`\n\n")
	}

	return proxies, listErr
}

// writeProxyDiagnostics renders the checks of a single proxy.
func (s *ToolService) writeProxyDiagnostics(
	ctx context.Context,
	b *strings.Builder,
	proxyName string,
	proxies map[string]*types.Proxy,
	testUpstream bool,
) {
	listed, ok := proxies[proxyName]
	if !ok {
		fmt.Fprintf(b, "❌ Proxy '%s' not found\n", proxyName)
		fmt.Fprintf(b, "Available proxies: %s\n\n", availableProxies(proxies))
		return
	}

	// the list may be stale by now, ask for the proxy itself
	p, err := s.client.GetProxy(ctx, proxyName)
	if err != nil {
		fmt.Fprintf(b, "⚠️  Could not fetch proxy '%s' (%s), showing listed details\n", proxyName, errorMessage(err))
		p = listed
	}

	fmt.Fprintf(b, "✅ Proxy '%s' exists\n", proxyName)
	fmt.Fprintf(b, "- Listen: %s\n", p.Listen)
	fmt.Fprintf(b, "- Upstream: %s\n", p.Upstream)
	fmt.Fprintf(b, "- Status: %s\n", enabledStatus(p.Enabled))
	fmt.Fprintf(b, "- Toxics: %d\n\n", len(p.Toxics))

	if !p.Enabled {
		b.WriteString("⚠️  Proxy is disabled. Enable it to allow traffic.\n\n")
	}

	if testUpstream {
		if host, port := splitAddress(p.Upstream); port != "" {
			b.WriteString("Test the upstream directly, bypassing the proxy:\n")
			fmt.Fprintf(b, "```bash\ntelnet %s %s\n```\n\n", host, port)
		} else {
			fmt.Fprintf(b, "⚠️  Upstream '%s' has no port, cannot suggest a direct connection test.\n\n", p.Upstream)
		}
	}
}

// generateTestCommands renders example commands to exercise a proxy, tailored to the kind of service behind it.
func (s *ToolService) generateTestCommands(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())
	proxyName, err := args.requireString("proxyName")
	if err != nil {
		return failure("Failed to generate test commands!", err, ""), nil
	}
	testType, err := types.ValidateTestType(args.stringOr("testType", ""))
	if err != nil {
		return failure("Failed to generate test commands!", err, ""), nil
	}
	dbPort := args.portOr("dbPort", 0)

	proxies, err := s.client.ListProxies(ctx)
	if err != nil {
		return failure("Failed to generate test commands!", err, serverHint(err)), nil
	}

	p, ok := proxies[proxyName]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf(
			"❌ Proxy '%s' not found!\n\nAvailable proxies: %s\n\nUse 'list_proxies' to see all active proxies.",
			proxyName, availableProxies(proxies),
		)), nil
	}

	listenHost, proxyPort := splitAddress(p.Listen)
	proxyHost := connectHost(listenHost)
	upstreamHost, upstreamPort := splitAddress(p.Upstream)

	var b strings.Builder
	fmt.Fprintf(&b, "🧪 **Test Commands for Proxy '%s'**\n\n", proxyName)
	b.WriteString("**Proxy Details:**\n")
	fmt.Fprintf(&b, "- Listen: %s\n", p.Listen)
	fmt.Fprintf(&b, "- Upstream: %s\n", p.Upstream)
	if p.Enabled {
		b.WriteString("- Status: Enabled\n\n")
	} else {
		b.WriteString("- Status: Disabled ⚠️\n\n")
	}

	proxyOK := proxyPort != ""
	upstreamOK := upstreamPort != ""
	if !proxyOK {
		fmt.Fprintf(&b, "⚠️  Listen address '%s' has no port, proxy connection tests are omitted.\n\n", p.Listen)
	}
	if !upstreamOK {
		fmt.Fprintf(&b, "⚠️  Upstream address '%s' has no port, direct upstream tests are omitted.\n\n", p.Upstream)
	}

	switch testType {
	case types.TestTypeDatabase:
		b.WriteString("**Database Connection Tests:**\n```bash\n")
		if proxyOK {
			fmt.Fprintf(&b, "# Test direct connection to proxy\ntelnet %s %s\n\n", proxyHost, proxyPort)
			fmt.Fprintf(&b, "# Test PostgreSQL connection via proxy\npsql -h %s -p %s -U your_username -d your_database\n\n",
				proxyHost, proxyPort)
		}
		if dbPort != 0 {
			fmt.Fprintf(&b, "# Test if iptables redirect is working (should connect via proxy)\n"+
				"psql -h localhost -p %d -U your_username -d your_database\n\n", dbPort)
		}
		if upstreamOK {
			fmt.Fprintf(&b, "# Test direct upstream connection (bypass proxy)\npsql -h %s -p %s -U your_username -d your_database\n",
				upstreamHost, upstreamPort)
		}
		b.WriteString("```\n\n")
	case types.TestTypeRabbitMQ:
		b.WriteString("**RabbitMQ Connection Tests:**\n```bash\n")
		if proxyOK {
			fmt.Fprintf(&b, "# Test AMQP connection via proxy (if you have amqp-tools)\n"+
				"amqp-declare-queue -H %s -P %s -u guest -p guest test-queue\n\n", proxyHost, proxyPort)
		}
		if upstreamOK {
			fmt.Fprintf(&b, "# Test direct upstream AMQP connection (bypass proxy)\n"+
				"amqp-declare-queue -H %s -P %s -u guest -p guest test-queue\n\n", upstreamHost, upstreamPort)
		}
		if mgmtPort, ok := managementPort(upstreamPort); ok {
			fmt.Fprintf(&b, "# Test the RabbitMQ management API of the upstream (not proxied)\n"+
				"curl -u guest:guest http://%s:%d/api/overview\n", upstreamHost, mgmtPort)
		}
		b.WriteString("```\n\n")
	case types.TestTypeHTTP:
		b.WriteString("**HTTP Connection Tests:**\n```bash\n")
		if proxyOK {
			fmt.Fprintf(&b, "# Test HTTP connection via proxy\ncurl -v http://%s:%s/\n\n", proxyHost, proxyPort)
			fmt.Fprintf(&b, "# Test with timing to see latency effects\ntime curl http://%s:%s/\n\n", proxyHost, proxyPort)
		}
		if upstreamOK {
			fmt.Fprintf(&b, "# Test direct upstream\ncurl -v http://%s:%s/\n", upstreamHost, upstreamPort)
		}
		b.WriteString("```\n\n")
	}

	b.WriteString("**Network Connectivity Tests:**\n```bash\n")
	if proxyOK {
		fmt.Fprintf(&b, "# Check if proxy port is listening\nss -tln | grep :%s\n\n", proxyPort)
	}
	if upstreamOK {
		fmt.Fprintf(&b, "# Check if upstream is reachable\ntelnet %s %s\n\n", upstreamHost, upstreamPort)
	}
	if proxyOK {
		fmt.Fprintf(&b, "# Test with nc (netcat)\necho \"test\" | nc %s %s\n", proxyHost, proxyPort)
	}
	b.WriteString("```\n\n")

	if len(p.Toxics) > 0 {
		b.WriteString("**Active Toxics (expect these effects):**\n")
		for _, t := range p.Toxics {
			fmt.Fprintf(&b, "- %s: %s (%s, %s%%) - %s\n",
				t.Name, t.Type, t.Stream, percent(t.Toxicity), formatAttributes(t.Attributes))
		}
		b.WriteString("\n")
	}

	b.WriteString("**Expected Results:**\n")
	writeExpectedResults(&b, p)

	return mcp.NewToolResultText(b.String()), nil
}

// writeExpectedResults lists the effects a tester should observe, given the proxy's state and toxics.
func writeExpectedResults(b *strings.Builder, p *types.Proxy) {
	if !p.Enabled {
		b.WriteString("- ❌ Connections should fail (proxy is disabled)\n")
		return
	}

	b.WriteString("- ✅ Connections should succeed but may be slow/affected by toxics\n")
	if p.HasToxicType(types.ToxicTypeLatency) {
		b.WriteString("- ⏱️  Expect increased response times due to latency toxic\n")
	}
	if p.HasToxicType(types.ToxicTypeBandwidth) {
		b.WriteString("- 🐌 Expect slower data transfer due to bandwidth limiting\n")
	}
	if p.HasToxicType(types.ToxicTypeTimeout) {
		b.WriteString("- ⏰ Expect connection timeouts or dropped connections\n")
	}
}

// managementPort derives the RabbitMQ management API port from an AMQP port (5672 -> 15672).
func managementPort(amqpPort string) (int, bool) {
	p, err := strconv.Atoi(amqpPort)
	if err != nil {
		return 0, false
	}
	return p + proxyPortOffset, true
}
