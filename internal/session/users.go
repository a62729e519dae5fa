package session

import (
	"context"

	"grafanapdf/pkg/sdk"
)

// User management records the raw error text rather than the API detail.

func (s *Session) FetchUsers(ctx context.Context) ([]sdk.User, error) {
	users, err := s.gw.ListUsers(ctx)
	if err != nil {
		s.setError(err.Error())
		return nil, err
	}
	return users, nil
}

func (s *Session) CreateUser(ctx context.Context, req sdk.UserCreate) (*sdk.User, error) {
	user, err := s.gw.CreateUser(ctx, req)
	if err != nil {
		s.setError(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *Session) UpdateUser(ctx context.Context, username string, req sdk.UserUpdate) (*sdk.User, error) {
	user, err := s.gw.UpdateUser(ctx, username, req)
	if err != nil {
		s.setError(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *Session) DeleteUser(ctx context.Context, username string) error {
	if err := s.gw.DeleteUser(ctx, username); err != nil {
		s.setError(err.Error())
		return err
	}
	return nil
}
