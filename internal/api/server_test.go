package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toximcp/toximcp/client"
	"github.com/toximcp/toximcp/internal/service/tools"
	"github.com/toximcp/toximcp/internal/telemetry"
	"github.com/toximcp/toximcp/pkg/types"
)

func newTestServer(t *testing.T, toxiproxyURL string, otelProviders *telemetry.Providers) *Server {
	t.Helper()

	toolService, err := tools.NewToolService(&tools.ServiceConfig{
		Client: client.NewClient(toxiproxyURL, nil),
	})
	require.NoError(t, err)

	newMCP := func() *server.MCPServer {
		s := server.NewMCPServer("toxiproxy-mcp-test", "0.0.1", server.WithToolCapabilities(true))
		toolService.Register(s)
		return s
	}

	s, err := NewServer(&ServerOptions{
		Port:          "0",
		MCPServer:     newMCP(),
		SseMCPServer:  newMCP(),
		ToolService:   toolService,
		ToxiproxyURL:  toxiproxyURL,
		OtelProviders: otelProviders,
	})
	require.NoError(t, err)
	return s
}

func serve(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(&ServerOptions{})
	assert.Error(t, err)

	srv := server.NewMCPServer("x", "0.0.1")
	_, err = NewServer(&ServerOptions{MCPServer: srv, SseMCPServer: srv})
	assert.Error(t, err)
}

func TestHealthAndMetadata(t *testing.T) {
	s := newTestServer(t, "http://toxiproxy:8474", nil)

	w := serve(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(s, http.MethodGet, "/metadata", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var m types.ServerMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.NotEmpty(t, m.Version)
	assert.Equal(t, "http://toxiproxy:8474", m.ToxiproxyURL)

	// no metrics endpoint unless telemetry is enabled
	w = serve(s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	p, err := telemetry.Init(context.Background(), &telemetry.Config{ServiceName: "toximcp-test", Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	s := newTestServer(t, client.DefaultBaseURL, p)

	w := serve(s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestToolsAPI(t *testing.T) {
	s := newTestServer(t, client.DefaultBaseURL, nil)

	w := serve(s, http.MethodGet, V0ApiPathPrefix+"/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []types.Tool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 15)

	w = serve(s, http.MethodGet, V0ApiPathPrefix+"/tool?name=remove_toxic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tool types.Tool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tool))
	assert.ElementsMatch(t, []string{"proxyName", "toxicName"}, tool.InputSchema.Required)

	w = serve(s, http.MethodGet, V0ApiPathPrefix+"/tool?name=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, http.MethodGet, V0ApiPathPrefix+"/tool", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvokeToolAPI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/proxies" {
			_, _ = w.Write([]byte("{}"))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	s := newTestServer(t, ts.URL, nil)

	invoke := func(body string) (*httptest.ResponseRecorder, types.ToolInvokeResult) {
		w := serve(s, http.MethodPost, V0ApiPathPrefix+"/tools/invoke", []byte(body))
		var res types.ToolInvokeResult
		if w.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		}
		return w, res
	}

	w, res := invoke(`{"name": "list_proxies"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, res.IsError)
	assert.Contains(t, res.Text, "No proxies found")

	// a tool failure is still a successful HTTP call
	w, res = invoke(`{"name": "delete_proxy", "arguments": {"proxyName": "ghost"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text, "Failed to delete proxy!")

	w, _ = invoke(`{"name": "nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = invoke(`{"arguments": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
