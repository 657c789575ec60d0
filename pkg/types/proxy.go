package types

// Proxy represents a proxy registered in the Toxiproxy server.
// Toxiproxy owns this data, toximcp never keeps a copy beyond a single response.
type Proxy struct {
	Name     string `json:"name"`
	Listen   string `json:"listen"`
	Upstream string `json:"upstream"`
	Enabled  bool   `json:"enabled"`

	// Toxics is the ordered list of toxics currently attached to this proxy.
	Toxics []Toxic `json:"toxics"`
}

// HasToxicType returns true if at least one of the proxy's toxics is of the given type.
func (p *Proxy) HasToxicType(t ToxicType) bool {
	for _, toxic := range p.Toxics {
		if toxic.Type == string(t) {
			return true
		}
	}
	return false
}

// CreateProxyRequest is the body sent to Toxiproxy to create a new proxy.
type CreateProxyRequest struct {
	// Name (mandatory) is the unique name of the proxy
	Name string `json:"name"`

	// Listen is the address the proxy listens on, eg- "0.0.0.0:15432"
	Listen string `json:"listen"`

	// Upstream is the address traffic is relayed to, eg- "dev.localhost:5432"
	Upstream string `json:"upstream"`

	Enabled bool `json:"enabled"`
}

// UpdateProxyRequest is the body sent to Toxiproxy to modify an existing proxy.
// Only non-nil fields are changed by the server.
type UpdateProxyRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// TestType is the kind of service sitting behind a proxy.
// It decides which example commands are generated for testing the proxy.
type TestType string

const (
	TestTypeDatabase TestType = "database"
	TestTypeRabbitMQ TestType = "rabbitmq"
	TestTypeHTTP     TestType = "http"
)
