package types

import "fmt"

// Transport is the MCP transport the toximcp server is reached over.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportStreamableHTTP Transport = "streamable_http"
	TransportSSE            Transport = "sse"
)

// IsHTTP reports whether the transport is served by the HTTP server.
func (t Transport) IsHTTP() bool {
	return t == TransportStreamableHTTP || t == TransportSSE
}

// ValidateTransport validates the input string and returns the corresponding Transport.
// An empty input means stdio.
func ValidateTransport(input string) (Transport, error) {
	switch input {
	case "", string(TransportStdio):
		return TransportStdio, nil
	case string(TransportStreamableHTTP):
		return TransportStreamableHTTP, nil
	case string(TransportSSE):
		return TransportSSE, nil
	default:
		return "", fmt.Errorf(
			"unsupported transport type: %s (acceptable values: '%s', '%s', '%s')",
			input, TransportStdio, TransportStreamableHTTP, TransportSSE,
		)
	}
}
