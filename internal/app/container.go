package app

import (
	"fmt"

	"grafanapdf/internal/appstate"
	"grafanapdf/internal/config"
	"grafanapdf/internal/events"
	"grafanapdf/internal/prefs"
	"grafanapdf/internal/router"
	"grafanapdf/internal/session"
	"grafanapdf/internal/storage"
	"grafanapdf/internal/version"
	"grafanapdf/pkg/sdk"
)

type Container struct {
	Config   *config.Config
	Store    *storage.GormStore
	Bus      *events.Bus
	Client   *sdk.Client
	Prefs    *prefs.Store
	Session  *session.Session
	Router   *router.Router
	AppState *appstate.Store
}

// New opens the local stores and wires the gateway, session, router and app state.
func New(cfg *config.Config) (*Container, error) {
	store, err := storage.NewGormStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error opening local store: %w", err)
	}

	jar, err := prefs.NewJar(cfg.Storage.CookiePath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bus := events.NewBus()
	client := sdk.NewClient(
		sdk.ResolveBaseURL(cfg.API.URL),
		sdk.WithTimeout(cfg.API.Timeout),
		sdk.WithUserAgent("grafana-pdf-cli/"+version.Current),
	)

	preferences := prefs.NewStore(jar, store, bus, prefs.WithDefaults(cfg.Preferences.Theme, cfg.Preferences.Language))
	sess := session.New(client, prefs.NewTokenStore(preferences))
	r := router.New(router.NewGuard(router.DefaultChecks(client, sess, client)...))
	sess.SetNavigator(r)

	return &Container{
		Config:   cfg,
		Store:    store,
		Bus:      bus,
		Client:   client,
		Prefs:    preferences,
		Session:  sess,
		Router:   r,
		AppState: appstate.New(client, bus),
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
