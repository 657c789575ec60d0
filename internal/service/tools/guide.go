package tools

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
)

//go:embed guides/*.md.tmpl
var guideFS embed.FS

var guides = template.Must(template.ParseFS(guideFS, "guides/*.md.tmpl"))

// guideData holds the values substituted into the static guides.
type guideData struct {
	AdminURL     string
	AdminPort    string
	StartCommand string

	// ServicePort and ProxyPort are the example ports of a PostgreSQL proxy created with the default offset.
	ServicePort int
	ProxyPort   int
}

func (s *ToolService) guideData() *guideData {
	return &guideData{
		AdminURL:     s.adminURL(),
		AdminPort:    s.adminPort(),
		StartCommand: startToxiproxyCommand,
		ServicePort:  5432,
		ProxyPort:    5432 + proxyPortOffset,
	}
}

// renderGuide renders one of the embedded guides.
func (s *ToolService) renderGuide(name string) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := guides.ExecuteTemplate(&buf, name, s.guideData()); err != nil {
		return nil, fmt.Errorf("failed to render guide %s: %w", name, err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *ToolService) checkIptablesRules(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.renderGuide("iptables.md.tmpl")
}

func (s *ToolService) showTroubleshootingGuide(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.renderGuide("troubleshooting.md.tmpl")
}
