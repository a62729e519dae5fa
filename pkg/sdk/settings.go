package sdk

import "context"

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := c.get(ctx, "/settings", &settings)
	return settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, settings Settings) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/settings", settings, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ApplySettings(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/settings/apply", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CheckSettingsInitialized(ctx context.Context) (*SettingsInitialized, error) {
	var status SettingsInitialized
	if err := c.get(ctx, "/settings/initialized", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) TestGrafanaConnection(ctx context.Context, settings Settings) (ConnectionResult, error) {
	var result ConnectionResult
	err := c.post(ctx, "/settings/test/grafana", settings, &result)
	return result, err
}

func (c *Client) TestEmailSettings(ctx context.Context, settings Settings) (ConnectionResult, error) {
	var result ConnectionResult
	err := c.post(ctx, "/settings/test/email", settings, &result)
	return result, err
}

func (c *Client) TestLdapConnection(ctx context.Context, settings Settings) (ConnectionResult, error) {
	var result ConnectionResult
	err := c.post(ctx, "/settings/test/ldap", settings, &result)
	return result, err
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}
