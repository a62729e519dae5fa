package appstate

import (
	"context"

	"grafanapdf/pkg/sdk"
)

func (s *Store) FetchLayouts(ctx context.Context) {
	s.begin()
	defer s.end()

	layouts, err := s.gw.ListLayouts(ctx)
	if err != nil {
		_ = s.fail(err)
		return
	}
	s.update(func(st *State) { st.Layouts = layouts })
}

func (s *Store) GetLayout(ctx context.Context, id string) (*sdk.Layout, error) {
	s.begin()
	defer s.end()

	l, err := s.gw.GetLayout(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return l, nil
}

// SaveLayout creates or updates a layout. A layout without a server is bound to the
// selected server.
func (s *Store) SaveLayout(ctx context.Context, l sdk.Layout) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	if l.ServerID == "" {
		l.ServerID = s.SelectedServerID()
	}

	var (
		resp *sdk.StatusResponse
		err  error
	)
	if l.ID != "" {
		resp, err = s.gw.UpdateLayout(ctx, l)
	} else {
		resp, err = s.gw.CreateLayout(ctx, l)
	}
	if err != nil {
		return nil, s.fail(err)
	}
	return resp, nil
}

func (s *Store) DeleteLayout(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	if err := s.gw.DeleteLayout(ctx, id); err != nil {
		return s.fail(err)
	}
	return nil
}
