package appstate

import (
	"context"

	"grafanapdf/internal/events"
	"grafanapdf/pkg/sdk"
)

func (s *Store) GetSettings(ctx context.Context) (sdk.Settings, error) {
	s.begin()
	defer s.end()

	settings, err := s.gw.GetSettings(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return settings, nil
}

// UpdateSettings saves the settings and publishes them on the settings-updated topic.
func (s *Store) UpdateSettings(ctx context.Context, settings sdk.Settings) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	resp, err := s.gw.UpdateSettings(ctx, settings)
	if err != nil {
		return nil, s.fail(err)
	}
	if s.bus != nil {
		s.bus.Publish(events.TopicSettingsUpdated, settings)
	}
	return resp, nil
}

func (s *Store) ApplySettings(ctx context.Context) (*sdk.StatusResponse, error) {
	s.begin()
	defer s.end()

	resp, err := s.gw.ApplySettings(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return resp, nil
}

func (s *Store) CheckSettingsInitialized(ctx context.Context) (*sdk.SettingsInitialized, error) {
	s.begin()
	defer s.end()

	status, err := s.gw.CheckSettingsInitialized(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return status, nil
}

// ConnectionKind selects one of the settings connection tests.
type ConnectionKind string

const (
	ConnectionGrafana ConnectionKind = "grafana"
	ConnectionEmail   ConnectionKind = "email"
	ConnectionLdap    ConnectionKind = "ldap"
)

func (s *Store) TestConnection(ctx context.Context, kind ConnectionKind, settings sdk.Settings) (sdk.ConnectionResult, error) {
	s.begin()
	defer s.end()

	var (
		result sdk.ConnectionResult
		err    error
	)
	switch kind {
	case ConnectionEmail:
		result, err = s.gw.TestEmailSettings(ctx, settings)
	case ConnectionLdap:
		result, err = s.gw.TestLdapConnection(ctx, settings)
	default:
		result, err = s.gw.TestGrafanaConnection(ctx, settings)
	}
	if err != nil {
		return nil, s.fail(err)
	}
	return result, nil
}

func (s *Store) TestGrafanaConnection(ctx context.Context, settings sdk.Settings) (sdk.ConnectionResult, error) {
	return s.TestConnection(ctx, ConnectionGrafana, settings)
}

func (s *Store) TestEmailSettings(ctx context.Context, settings sdk.Settings) (sdk.ConnectionResult, error) {
	return s.TestConnection(ctx, ConnectionEmail, settings)
}

func (s *Store) TestLdapConnection(ctx context.Context, settings sdk.Settings) (sdk.ConnectionResult, error) {
	return s.TestConnection(ctx, ConnectionLdap, settings)
}
