package tools

import (
	"fmt"
	"math"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toximcp/toximcp/client"
	"github.com/toximcp/toximcp/pkg/types"
)

const unknownError = "Unknown error"

// startToxiproxyCommand is the command suggested whenever Toxiproxy cannot be reached.
const startToxiproxyCommand = "docker run --rm -it --network=host --add-host=dev.localhost:127.0.0.1 " +
	"ghcr.io/shopify/toxiproxy:2.5.0 -host 0.0.0.0"

// errorMessage returns the message carried by err, or a fixed placeholder if there is none.
func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return unknownError
	}
	return err.Error()
}

// failure renders the failure report of a tool.
// hint is appended after the error message when not empty.
func failure(title string, err error, hint string) *mcp.CallToolResult {
	text := fmt.Sprintf("❌ %s\n\nError: %s", title, errorMessage(err))
	if hint != "" {
		text += "\n\n" + hint
	}
	return mcp.NewToolResultError(text)
}

// proxyHint suggests the most likely cause of a failed call addressed to a named proxy.
func proxyHint(err error, proxyName string) string {
	if client.IsUnreachable(err) {
		return "To start Toxiproxy server, run:\n" + startToxiproxyCommand
	}
	return fmt.Sprintf("Make sure the proxy '%s' exists.", proxyName)
}

// serverHint suggests how to fix a failed call that is not addressed to a particular proxy.
func serverHint(err error) string {
	if client.IsUnreachable(err) {
		return "To start Toxiproxy server, run:\n" + startToxiproxyCommand
	}
	return ""
}

// percent renders a toxicity (0.0 to 1.0) as a percentage without trailing zeros.
func percent(toxicity float64) string {
	return formatNumber(math.Round(toxicity*100*1e6) / 1e6)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return formatNumber(n)
	case float32:
		return formatNumber(float64(n))
	default:
		return fmt.Sprint(v)
	}
}

// formatAttributes renders toxic attributes as "k=v, k=v", sorted by key.
func formatAttributes(attrs types.Attributes) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// proxyNames returns the names of the given proxies in sorted order.
func proxyNames(proxies map[string]*types.Proxy) []string {
	names := make([]string, 0, len(proxies))
	for name := range proxies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// availableProxies renders the list of existing proxy names, or "none".
func availableProxies(proxies map[string]*types.Proxy) string {
	names := proxyNames(proxies)
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// splitAddress splits a "host:port" address.
// If the address cannot be split, the whole address is returned as the host.
func splitAddress(addr string) (string, string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, ""
	}
	return host, port
}

// connectHost returns the host a client should dial to reach a listener bound to host.
func connectHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "localhost"
	default:
		return host
	}
}

func enabledStatus(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
