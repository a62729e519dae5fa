package sdk

import "context"

func (c *Client) ListLayouts(ctx context.Context) ([]Layout, error) {
	var layouts []Layout
	err := c.get(ctx, "/layouts", &layouts)
	return layouts, err
}

func (c *Client) GetLayout(ctx context.Context, id string) (*Layout, error) {
	var l Layout
	if err := c.get(ctx, "/layouts/"+escape(id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) CreateLayout(ctx context.Context, l Layout) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/layouts", l, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateLayout(ctx context.Context, l Layout) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.put(ctx, "/layouts/"+escape(l.ID), l, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteLayout(ctx context.Context, id string) error {
	return c.delete(ctx, "/layouts/"+escape(id), nil)
}
