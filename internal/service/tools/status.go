package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// checkStatus reports whether the Toxiproxy server is reachable, its version and the number of proxies.
// A failure to list proxies does not hide a successful version check.
func (s *ToolService) checkStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	version, err := s.client.Version(ctx)
	if err != nil {
		return failure(
			"Toxiproxy server is not accessible!",
			err,
			"To start Toxiproxy server, run:\n"+startToxiproxyCommand,
		), nil
	}

	var b strings.Builder
	b.WriteString("✅ Toxiproxy server is running!\n\n")
	fmt.Fprintf(&b, "Version: %s\n", version)

	proxies, err := s.client.ListProxies(ctx)
	if err != nil {
		fmt.Fprintf(&b, "Active proxies: unavailable (%s)\n", errorMessage(err))
	} else {
		fmt.Fprintf(&b, "Active proxies: %d\n", len(proxies))
	}

	fmt.Fprintf(&b, "\nServer URL: %s", s.adminURL())
	return mcp.NewToolResultText(b.String()), nil
}
