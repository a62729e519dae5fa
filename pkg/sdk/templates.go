package sdk

import "context"

func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	err := c.get(ctx, "/templates", &templates)
	return templates, err
}

func (c *Client) GetTemplate(ctx context.Context, id string) (*Template, error) {
	var t Template
	if err := c.get(ctx, "/templates/"+escape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTemplate(ctx context.Context, t Template) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/templates", t, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, t Template) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.put(ctx, "/templates/"+escape(t.ID), t, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.delete(ctx, "/templates/"+escape(id), nil)
}
