package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/toximcp/toximcp/pkg/types"
)

func TestListProxies(t *testing.T) {
	t.Parallel()

	t.Run("successful list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("Expected GET method, got %s", r.Method)
			}
			if r.URL.Path != "/proxies" {
				t.Errorf("Expected path /proxies, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"postgres_proxy": {"name": "postgres_proxy", "listen": "0.0.0.0:15432",
					"upstream": "dev.localhost:5432", "enabled": true, "toxics": []},
				"legacy": {"listen": "0.0.0.0:1", "upstream": "x:2", "enabled": false}
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		proxies, err := client.ListProxies(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(proxies) != 2 {
			t.Fatalf("Expected 2 proxies, got %d", len(proxies))
		}

		p := proxies["postgres_proxy"]
		if p == nil {
			t.Fatal("Expected postgres_proxy to be present")
		}
		if p.Listen != "0.0.0.0:15432" || p.Upstream != "dev.localhost:5432" || !p.Enabled {
			t.Errorf("Unexpected proxy descriptor: %+v", p)
		}

		if proxies["legacy"].Name != "legacy" {
			t.Errorf("Expected name to be filled from the map key, got %q", proxies["legacy"].Name)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		proxies, err := client.ListProxies(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(proxies) != 0 {
			t.Errorf("Expected empty list, got %d proxies", len(proxies))
		}
	})

	t.Run("non-JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hello"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if _, err := client.ListProxies(context.Background()); err == nil {
			t.Error("Expected error for a non-JSON proxy list, got nil")
		}
	})
}

func TestGetProxy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/proxies/my%20proxy" {
			t.Errorf("Expected escaped proxy path, got %s", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{"name": "my proxy", "listen": "0.0.0.0:1", "upstream": "a:2", "enabled": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	p, err := client.GetProxy(context.Background(), "my proxy")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Name != "my proxy" {
		t.Errorf("Expected name 'my proxy', got %s", p.Name)
	}
}

func TestCreateProxy(t *testing.T) {
	t.Parallel()

	t.Run("successful creation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("Expected POST method, got %s", r.Method)
			}
			if r.URL.Path != "/proxies" {
				t.Errorf("Expected path /proxies, got %s", r.URL.Path)
			}

			var req types.CreateProxyRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("Failed to decode request body: %v", err)
			}
			if req.Name != "db" || req.Listen != "0.0.0.0:15432" || req.Upstream != "dev.localhost:5432" || !req.Enabled {
				t.Errorf("Unexpected create request: %+v", req)
			}

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(types.Proxy{
				Name: req.Name, Listen: "[::]:15432", Upstream: req.Upstream, Enabled: true,
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		p, err := client.CreateProxy(context.Background(), &types.CreateProxyRequest{
			Name:     "db",
			Listen:   "0.0.0.0:15432",
			Upstream: "dev.localhost:5432",
			Enabled:  true,
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p.Listen != "[::]:15432" {
			t.Errorf("Expected the server's listen address, got %s", p.Listen)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"proxy already exists","status":409}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		p, err := client.CreateProxy(context.Background(), &types.CreateProxyRequest{Name: "db"})
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if p != nil {
			t.Error("Expected nil proxy on error")
		}
		if err.Error() != `Toxiproxy API error (409): {"error":"proxy already exists","status":409}` {
			t.Errorf("Unexpected error message: %s", err.Error())
		}
	})
}

func TestUpdateProxy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/proxies/db" {
			t.Errorf("Expected path /proxies/db, got %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if body["enabled"] != false {
			t.Errorf("Expected enabled=false in body, got %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	enabled := false
	client := NewClient(server.URL, nil)
	p, err := client.UpdateProxy(context.Background(), "db", &types.UpdateProxyRequest{Enabled: &enabled})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Enabled {
		t.Error("Expected the proxy to be reported as disabled")
	}
}

func TestDeleteProxy(t *testing.T) {
	t.Parallel()

	t.Run("successful deletion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("Expected DELETE method, got %s", r.Method)
			}
			if r.URL.Path != "/proxies/db" {
				t.Errorf("Expected path /proxies/db, got %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if err := client.DeleteProxy(context.Background(), "db"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	})

	t.Run("proxy not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("proxy not found"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.DeleteProxy(context.Background(), "db")
		if !IsNotFound(err) {
			t.Errorf("Expected a not found error, got %v", err)
		}
	})
}
