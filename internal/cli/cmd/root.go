package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"grafanapdf/internal/app"
	"grafanapdf/internal/config"
	"grafanapdf/internal/logging"
	"grafanapdf/internal/router"
)

var (
	Container *app.Container

	BaseURL    string
	ConfigDir  string
	LogLevel   string
	JSONOutput bool
)

var RootCmd = &cobra.Command{
	Use:           "grafana-pdf",
	Short:         "Client for the Grafana PDF report generator",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return Container.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunDashboard(cmd.Context())
	},
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&BaseURL, "url", "", "URL of the report API (overrides "+config.EnvPrefix+"API_URL)")
	RootCmd.PersistentFlags().StringVar(&ConfigDir, "config", "", "configuration directory")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().BoolVar(&JSONOutput, "json", false, "print results as JSON")

	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setup() error {
	dir := ConfigDir
	if dir == "" {
		var err error
		if dir, err = config.Dir(); err != nil {
			return err
		}
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return err
	}
	if BaseURL != "" {
		cfg.API.URL = BaseURL
	}
	if LogLevel != "" {
		cfg.Logging.Level = LogLevel
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.Debug().Str("config_dir", dir).Str("api", cfg.API.URL).Msg("configuration loaded")

	Container, err = app.New(cfg)
	return err
}

// ErrNotLoggedIn is returned when the guard sends a command to the login route.
var ErrNotLoggedIn = errors.New("not logged in: run 'grafana-pdf login' first")

// enter passes the navigation guard for the route a command belongs to and turns a
// redirect into an error the user can act on.
func enter(ctx context.Context, name string) error {
	route, err := Container.Router.Push(ctx, name)
	if err != nil {
		return err
	}
	if route.Name == name {
		return nil
	}

	switch route.Name {
	case router.Login:
		return ErrNotLoggedIn
	case router.Settings:
		return errors.New("the application settings are not initialized: an administrator must configure them with 'grafana-pdf settings update'")
	case router.Home:
		return errors.New("permission denied: this command requires an administrator")
	default:
		return fmt.Errorf("redirected to %s", route.Title)
	}
}

// requireRoute is a PreRunE that passes the guard for route.
func requireRoute(route string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return enter(cmd.Context(), route)
	}
}

// guardAll installs requireRoute on every sub-command of parent.
func guardAll(parent *cobra.Command, route string) {
	for _, c := range parent.Commands() {
		c.PreRunE = requireRoute(route)
	}
}
