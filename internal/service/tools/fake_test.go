package tools

import (
	"context"
	"sync"

	"github.com/toximcp/toximcp/client"
	"github.com/toximcp/toximcp/pkg/types"
)

// fakeClient is an in-memory ToxiproxyClient.
// Errors set on the fake are returned by the matching calls instead of touching the state.
type fakeClient struct {
	mu sync.Mutex

	baseURL string
	version string
	proxies map[string]*types.Proxy

	versionErr error
	listErr    error
	getErr     error
	createErr  error
	updateErr  error
	deleteErr  error
	toxicErr   error
	resetErr   error

	createdProxies []*types.CreateProxyRequest
	createdToxics  []*types.Toxic
	calls          int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		baseURL: "http://localhost:8474",
		version: "2.5.0",
		proxies: map[string]*types.Proxy{},
	}
}

// unreachable makes every call fail the way the real client fails when nothing listens on the base URL.
func (f *fakeClient) unreachable() *fakeClient {
	err := &client.UnreachableError{BaseURL: f.baseURL}
	f.versionErr, f.listErr, f.getErr, f.createErr = err, err, err, err
	f.updateErr, f.deleteErr, f.toxicErr, f.resetErr = err, err, err, err
	return f
}

func (f *fakeClient) withProxy(p *types.Proxy) *fakeClient {
	f.proxies[p.Name] = p
	return f
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeClient) track() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeClient) BaseURL() string { return f.baseURL }

func (f *fakeClient) Version(context.Context) (string, error) {
	f.track()
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return f.version, nil
}

func (f *fakeClient) ListProxies(context.Context) (map[string]*types.Proxy, error) {
	f.track()
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*types.Proxy, len(f.proxies))
	for k, v := range f.proxies {
		out[k] = v
	}
	return out, nil
}

func (f *fakeClient) GetProxy(_ context.Context, name string) (*types.Proxy, error) {
	f.track()
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[name]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Body: "proxy not found"}
	}
	return p, nil
}

func (f *fakeClient) CreateProxy(_ context.Context, req *types.CreateProxyRequest) (*types.Proxy, error) {
	f.track()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.proxies[req.Name]; ok {
		return nil, &client.APIError{StatusCode: 409, Body: "proxy already exists"}
	}
	f.createdProxies = append(f.createdProxies, req)
	p := &types.Proxy{Name: req.Name, Listen: req.Listen, Upstream: req.Upstream, Enabled: req.Enabled}
	f.proxies[req.Name] = p
	return p, nil
}

func (f *fakeClient) UpdateProxy(_ context.Context, name string, req *types.UpdateProxyRequest) (*types.Proxy, error) {
	f.track()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[name]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Body: "proxy not found"}
	}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	return p, nil
}

func (f *fakeClient) DeleteProxy(_ context.Context, name string) error {
	f.track()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.proxies[name]; !ok {
		return &client.APIError{StatusCode: 404, Body: "proxy not found"}
	}
	delete(f.proxies, name)
	return nil
}

func (f *fakeClient) CreateToxic(_ context.Context, proxyName string, toxic *types.Toxic) (*types.Toxic, error) {
	f.track()
	if f.toxicErr != nil {
		return nil, f.toxicErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[proxyName]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Body: "proxy not found"}
	}
	f.createdToxics = append(f.createdToxics, toxic)
	p.Toxics = append(p.Toxics, *toxic)
	return toxic, nil
}

func (f *fakeClient) DeleteToxic(_ context.Context, proxyName, toxicName string) error {
	f.track()
	if f.toxicErr != nil {
		return f.toxicErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proxies[proxyName]
	if !ok {
		return &client.APIError{StatusCode: 404, Body: "proxy not found"}
	}
	for i, t := range p.Toxics {
		if t.Name == toxicName {
			p.Toxics = append(p.Toxics[:i], p.Toxics[i+1:]...)
			return nil
		}
	}
	return &client.APIError{StatusCode: 404, Body: "toxic not found"}
}

func (f *fakeClient) Reset(context.Context) error {
	f.track()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.proxies {
		p.Toxics = nil
		p.Enabled = true
	}
	return nil
}
