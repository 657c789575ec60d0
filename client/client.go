// Package client provides a client for the administrative HTTP API of a Toxiproxy server.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the address Toxiproxy's administrative API listens on by default.
const DefaultBaseURL = "http://localhost:8474"

// versionPath is the only endpoint that replies with a bare string instead of JSON.
const versionPath = "/version"

// Client represents a client for interacting with the Toxiproxy administrative API.
// It holds no state besides its configuration and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// RequestOptions configures a single call made through Client.Do.
// The zero value issues a GET request without a body.
type RequestOptions struct {
	Method string

	// Body is a pre-serialized JSON payload.
	Body []byte

	// Headers are merged over the default "Content-Type: application/json" header.
	Headers map[string]string
}

// NewClient creates a new Toxiproxy API client.
// If httpClient is nil, http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the address of the Toxiproxy administrative API this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request to the given API path and returns the normalized response.
// A non-2xx status yields an *APIError and a failure to reach the server yields an *UnreachableError.
func (c *Client) Do(ctx context.Context, path string, opts *RequestOptions) (*Result, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := c.constructAPIEndpoint(path)
	if err != nil {
		return nil, fmt.Errorf("invalid API path %s: %w", path, err)
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// cancellation by the caller is not the server's fault
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &UnreachableError{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", u, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return newResult(path, raw), nil
}

// constructAPIEndpoint joins the base URL and an (already escaped) API path.
func (c *Client) constructAPIEndpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// proxyPath returns the API path of a single proxy, escaping its name.
func proxyPath(name string) string {
	return "/proxies/" + url.PathEscape(name)
}

// toxicsPath returns the API path of the toxics collection of a proxy.
func toxicsPath(proxyName string) string {
	return proxyPath(proxyName) + "/toxics"
}

// toxicPath returns the API path of a single toxic of a proxy.
func toxicPath(proxyName, toxicName string) string {
	return toxicsPath(proxyName) + "/" + url.PathEscape(toxicName)
}
