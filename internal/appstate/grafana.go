package appstate

import "context"

// FetchOrganizations lists the organizations of serverID, or of the selected server
// when serverID is empty.
func (s *Store) FetchOrganizations(ctx context.Context, serverID string) {
	s.begin()
	defer s.end()

	if serverID == "" {
		serverID = s.SelectedServerID()
	}
	orgs, err := s.gw.GetOrganizations(ctx, serverID)
	if err != nil {
		_ = s.fail(err)
		return
	}
	s.update(func(st *State) { st.Organizations = orgs })
}

// FetchDashboards loads the dashboards of orgID and makes it the selected
// organization. Panels of a previously selected dashboard are dropped.
func (s *Store) FetchDashboards(ctx context.Context, orgID int64) {
	s.begin()
	defer s.end()

	dashboards, err := s.gw.GetDashboards(ctx, orgID, s.SelectedServerID())
	if err != nil {
		_ = s.fail(err)
		return
	}
	s.update(func(st *State) {
		if st.SelectedOrganization == nil || *st.SelectedOrganization != orgID {
			st.SelectedDashboard = ""
			st.Panels = nil
		}
		st.Dashboards = dashboards
		st.SelectedOrganization = &orgID
	})
}

// FetchPanels loads the panels of a dashboard and makes it the selected dashboard.
func (s *Store) FetchPanels(ctx context.Context, dashboardUID string) {
	s.begin()
	defer s.end()

	panels, err := s.gw.GetPanels(ctx, dashboardUID, s.SelectedServerID())
	if err != nil {
		_ = s.fail(err)
		return
	}
	s.update(func(st *State) {
		st.Panels = panels
		st.SelectedDashboard = dashboardUID
	})
}
