package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/toximcp/toximcp/pkg/types"
)

// CreateToxic sends a request to attach a new toxic to the given proxy.
func (c *Client) CreateToxic(ctx context.Context, proxyName string, toxic *types.Toxic) (*types.Toxic, error) {
	body, err := json.Marshal(toxic)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal toxic data: %w", err)
	}

	res, err := c.Do(ctx, toxicsPath(proxyName), &RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}

	created := *toxic
	if res.Kind == ResultJSON {
		if err := res.Decode(&created); err != nil {
			return nil, err
		}
	}
	return &created, nil
}

// DeleteToxic sends a request to remove a toxic from the given proxy.
func (c *Client) DeleteToxic(ctx context.Context, proxyName, toxicName string) error {
	_, err := c.Do(ctx, toxicPath(proxyName, toxicName), &RequestOptions{Method: http.MethodDelete})
	return err
}
