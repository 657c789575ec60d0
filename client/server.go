package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Version returns the version string reported by the Toxiproxy server.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.Do(ctx, versionPath, nil)
	if err != nil {
		return "", err
	}

	// Toxiproxy 2.x replies with a bare string, some newer builds wrap it in a JSON object.
	if strings.HasPrefix(res.Text, "{") {
		var v struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal([]byte(res.Text), &v); err == nil && v.Version != "" {
			return v.Version, nil
		}
	}
	return res.Text, nil
}

// Reset removes all toxics from all proxies and enables every proxy.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.Do(ctx, "/reset", &RequestOptions{Method: http.MethodPost})
	return err
}
