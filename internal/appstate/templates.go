package appstate

import (
	"context"

	"grafanapdf/pkg/sdk"
)

func (s *Store) FetchTemplates(ctx context.Context) {
	s.begin()
	defer s.end()

	templates, err := s.gw.ListTemplates(ctx)
	if err != nil {
		_ = s.fail(err)
		return
	}
	s.update(func(st *State) { st.Templates = templates })
}

// GetTemplate loads a template and makes it the selected one.
func (s *Store) GetTemplate(ctx context.Context, id string) (*sdk.Template, error) {
	s.begin()
	defer s.end()

	t, err := s.gw.GetTemplate(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	s.update(func(st *State) { st.SelectedTemplate = id })
	return t, nil
}

// SaveTemplate creates the template when it has no id and updates it otherwise.
func (s *Store) SaveTemplate(ctx context.Context, t sdk.Template) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	var (
		resp *sdk.StatusResponse
		err  error
	)
	if t.ID != "" {
		resp, err = s.gw.UpdateTemplate(ctx, t)
	} else {
		resp, err = s.gw.CreateTemplate(ctx, t)
	}
	if err != nil {
		return nil, s.fail(err)
	}
	return resp, nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	s.begin()
	defer s.end()

	if err := s.gw.DeleteTemplate(ctx, id); err != nil {
		return s.fail(err)
	}
	return nil
}
