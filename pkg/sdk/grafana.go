package sdk

import (
	"context"
	"fmt"
)

// GetOrganizations lists organizations of serverID, or of the active server when empty.
func (c *Client) GetOrganizations(ctx context.Context, serverID string) ([]Organization, error) {
	path := "/organizations"
	if serverID != "" {
		path = fmt.Sprintf("/servers/%s/organizations", escape(serverID))
	}
	var orgs []Organization
	err := c.get(ctx, path, &orgs)
	return orgs, err
}

func (c *Client) GetDashboards(ctx context.Context, orgID int64, serverID string) ([]Dashboard, error) {
	path := fmt.Sprintf("/organizations/%d/dashboards", orgID)
	if serverID != "" {
		path = fmt.Sprintf("/servers/%s/organizations/%d/dashboards", escape(serverID), orgID)
	}
	var dashboards []Dashboard
	err := c.get(ctx, path, &dashboards)
	return dashboards, err
}

func (c *Client) GetPanels(ctx context.Context, dashboardUID, serverID string) ([]Panel, error) {
	path := fmt.Sprintf("/dashboards/%s/panels", escape(dashboardUID))
	if serverID != "" {
		path = fmt.Sprintf("/servers/%s/dashboards/%s/panels", escape(serverID), escape(dashboardUID))
	}
	var panels []Panel
	err := c.get(ctx, path, &panels)
	return panels, err
}
