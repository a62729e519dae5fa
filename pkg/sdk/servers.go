package sdk

import (
	"context"
	"fmt"
)

func (c *Client) ListServers(ctx context.Context) ([]GrafanaServer, error) {
	var servers []GrafanaServer
	err := c.get(ctx, "/servers", &servers)
	return servers, err
}

func (c *Client) GetServer(ctx context.Context, id string) (*GrafanaServer, error) {
	var server GrafanaServer
	if err := c.get(ctx, "/servers/"+escape(id), &server); err != nil {
		return nil, err
	}
	return &server, nil
}

func (c *Client) CreateServer(ctx context.Context, server GrafanaServer) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/servers", server, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateServer(ctx context.Context, id string, server GrafanaServer) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.put(ctx, "/servers/"+escape(id), server, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteServer(ctx context.Context, id string) error {
	return c.delete(ctx, "/servers/"+escape(id), nil)
}

// TestServerConnection checks a server; settings may override the stored credentials.
func (c *Client) TestServerConnection(ctx context.Context, id string, settings map[string]any) (ConnectionResult, error) {
	var result ConnectionResult
	err := c.post(ctx, fmt.Sprintf("/servers/%s/test", escape(id)), settings, &result)
	return result, err
}

func (c *Client) SelectServer(ctx context.Context, id string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, fmt.Sprintf("/servers/%s/select", escape(id)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
