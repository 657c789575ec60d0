package types

// ToolInputSchema defines the schema for the input parameters of a tool
type ToolInputSchema struct {
	Type       string         `json:"type" yaml:"type"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string       `json:"required,omitempty" yaml:"required,omitempty"`
}

// Tool describes one tool of the toximcp catalog.
// It is the shape printed by the CLI, independent of the MCP library's own tool type.
type Tool struct {
	Name        string          `json:"name" yaml:"name"`
	Title       string          `json:"title,omitempty" yaml:"title,omitempty"`
	Description string          `json:"description" yaml:"description"`
	InputSchema ToolInputSchema `json:"input_schema" yaml:"input_schema"`
}

// ServerMetadata represents the server metadata response
type ServerMetadata struct {
	Version      string `json:"version"`
	ToxiproxyURL string `json:"toxiproxy_url"`
}

// ToolInvokeInput is the body of a direct tool invocation request.
type ToolInvokeInput struct {
	Name      string         `json:"name" binding:"required"`
	Arguments map[string]any `json:"arguments"`
}

// ToolInvokeResult is the outcome of a direct tool invocation.
// IsError is set when the tool reported a failure, Text carries its report either way.
type ToolInvokeResult struct {
	IsError bool   `json:"is_error"`
	Text    string `json:"text"`
}
