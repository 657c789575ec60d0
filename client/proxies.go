package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/toximcp/toximcp/pkg/types"
)

// ListProxies fetches all proxies from Toxiproxy, keyed by proxy name.
func (c *Client) ListProxies(ctx context.Context) (map[string]*types.Proxy, error) {
	res, err := c.Do(ctx, "/proxies", nil)
	if err != nil {
		return nil, err
	}

	proxies := make(map[string]*types.Proxy)
	if res.Kind == ResultEmpty {
		return proxies, nil
	}
	if err := res.Decode(&proxies); err != nil {
		return nil, err
	}
	// the map key is authoritative, older servers omit the name inside the descriptor
	for name, p := range proxies {
		if p == nil {
			delete(proxies, name)
			continue
		}
		if p.Name == "" {
			p.Name = name
		}
	}
	return proxies, nil
}

// GetProxy fetches a single proxy by name.
func (c *Client) GetProxy(ctx context.Context, name string) (*types.Proxy, error) {
	res, err := c.Do(ctx, proxyPath(name), nil)
	if err != nil {
		return nil, err
	}

	var p types.Proxy
	if err := res.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProxy sends a request to create a new proxy.
// The returned proxy is the server's view of it. If the server's reply is not a proxy
// descriptor, the proxy is reconstructed from the request.
func (c *Client) CreateProxy(ctx context.Context, req *types.CreateProxyRequest) (*types.Proxy, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proxy data: %w", err)
	}

	res, err := c.Do(ctx, "/proxies", &RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}

	p := &types.Proxy{
		Name:     req.Name,
		Listen:   req.Listen,
		Upstream: req.Upstream,
		Enabled:  req.Enabled,
	}
	if res.Kind == ResultJSON {
		if err := res.Decode(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateProxy sends a request to modify an existing proxy, eg- to enable or disable it.
func (c *Client) UpdateProxy(ctx context.Context, name string, req *types.UpdateProxyRequest) (*types.Proxy, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proxy data: %w", err)
	}

	res, err := c.Do(ctx, proxyPath(name), &RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}

	p := &types.Proxy{Name: name}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	if res.Kind == ResultJSON {
		if err := res.Decode(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// DeleteProxy sends a request to delete a proxy and all of its toxics.
func (c *Client) DeleteProxy(ctx context.Context, name string) error {
	_, err := c.Do(ctx, proxyPath(name), &RequestOptions{Method: http.MethodDelete})
	return err
}
