package appstate

import (
	"context"

	"grafanapdf/pkg/sdk"
)

// FetchServers replaces the server list. When no server is selected yet the default
// server is selected, or the first one if none is marked default, and state loaded
// without a server is dropped.
func (s *Store) FetchServers(ctx context.Context) {
	s.begin()
	defer s.end()

	servers, err := s.gw.ListServers(ctx)
	if err != nil {
		_ = s.fail(err)
		return
	}

	s.update(func(st *State) {
		st.Servers = servers
		if len(servers) == 0 || st.SelectedServerID != "" {
			return
		}
		st.SelectedServerID = servers[0].ID
		for _, srv := range servers {
			if srv.IsDefault {
				st.SelectedServerID = srv.ID
				break
			}
		}
		clearServerScope(st)
	})
}

func (s *Store) GetServer(ctx context.Context, id string) (*sdk.GrafanaServer, error) {
	s.begin()
	defer s.end()

	server, err := s.gw.GetServer(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return server, nil
}

func (s *Store) CreateServer(ctx context.Context, server sdk.GrafanaServer) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	resp, err := s.gw.CreateServer(ctx, server)
	if err != nil {
		return nil, s.fail(err)
	}
	s.FetchServers(ctx)
	return resp, nil
}

func (s *Store) UpdateServer(ctx context.Context, id string, server sdk.GrafanaServer) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	resp, err := s.gw.UpdateServer(ctx, id, server)
	if err != nil {
		return nil, s.fail(err)
	}
	s.FetchServers(ctx)
	return resp, nil
}

func (s *Store) DeleteServer(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	if err := s.gw.DeleteServer(ctx, id); err != nil {
		return s.fail(err)
	}
	s.update(func(st *State) {
		if st.SelectedServerID == id {
			st.SelectedServerID = ""
			clearServerScope(st)
		}
	})
	s.FetchServers(ctx)
	return nil
}

// SelectServer makes id the active server. All server-scoped state is cleared before
// the organizations of the new server are fetched.
func (s *Store) SelectServer(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	if _, err := s.gw.SelectServer(ctx, id); err != nil {
		return s.fail(err)
	}

	s.update(func(st *State) {
		st.SelectedServerID = id
		clearServerScope(st)
	})

	s.FetchOrganizations(ctx, id)
	return nil
}

func clearServerScope(st *State) {
	st.Organizations = nil
	st.SelectedOrganization = nil
	st.Dashboards = nil
	st.SelectedDashboard = ""
	st.Panels = nil
}

func (s *Store) TestServerConnection(ctx context.Context, id string, settings map[string]any) (sdk.ConnectionResult, error) {
	s.begin()
	defer s.end()

	result, err := s.gw.TestServerConnection(ctx, id, settings)
	if err != nil {
		return nil, s.fail(err)
	}
	return result, nil
}
