package cmd

import (
	"context"
	"errors"
	"fmt"

	"grafanapdf/internal/cli/ui"
	"grafanapdf/internal/events"
	"grafanapdf/internal/logging"
	"grafanapdf/internal/prefs"
	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

// RunDashboard is the interactive client. Every screen change goes through the router
// so the navigation guard decides where the user actually lands.
func RunDashboard(ctx context.Context) error {
	ui.ApplyTheme(Container.Prefs.Theme())
	unsubscribe := Container.Bus.Subscribe(events.TopicPreferenceChanged, func(e events.Event) {
		change, ok := e.Payload.(events.PreferenceChanged)
		if ok && change.Key == prefs.Theme.Local {
			ui.ApplyTheme(prefs.ThemeMode(change.Value))
		}
	})
	defer unsubscribe()

	Container.Session.Restore(ctx)

	target := router.Home
	for {
		route, err := Container.Router.Push(ctx, target)
		if errors.Is(err, router.ErrRedirectLoop) {
			return errors.New("the application settings are not initialized: ask an administrator to configure them")
		}
		if err != nil {
			return err
		}
		logging.Debug().Str("target", target).Str("route", route.Name).Msg("dashboard navigation")

		switch route.Name {
		case router.Login:
			if !interactiveLogin(ctx) {
				return nil
			}
			target = router.Home

		case router.Home:
			switch choice := ui.RunHome(ctx, Container); choice {
			case "":
				return nil
			case ui.EntryServers:
				ui.RunServerPicker(ctx, Container)
			case ui.EntryLogout:
				Container.Session.Logout(ctx)
			default:
				target = choice
				continue
			}
			target = router.Home

		case router.ReportDesigner:
			ui.RunDesigner(ctx, Container)
			target = router.Home

		default:
			next := ui.RunResources(ctx, Container, route.Name)
			if route.Name == router.Settings && target != router.Settings {
				printOK("Configure the settings with 'grafana-pdf settings update' and run the client again.")
				return nil
			}
			target = router.Home
			if next != "" {
				target = next
			}
		}
	}
}

// interactiveLogin shows the login form until the user logs in or cancels. When no
// user exists yet the form creates the first administrator instead.
func interactiveLogin(ctx context.Context) bool {
	var (
		creds   sdk.Credentials
		message string
	)
	for {
		firstRun := false
		status, err := Container.Client.CheckSetupStatus(ctx)
		if err != nil {
			logging.Warn().Err(err).Msg("setup status unavailable")
		} else {
			firstRun = status.NeedsSetup
		}

		var ok bool
		creds, ok = ui.RunLoginForm(creds, firstRun, message)
		if !ok {
			return false
		}

		if firstRun {
			err = Container.Session.SetupUser(ctx, creds)
		} else {
			err = Container.Session.Login(ctx, creds)
		}
		if err == nil {
			return true
		}
		message = Container.Session.Snapshot().Error
		if message == "" {
			message = fmt.Sprint(err)
		}
		creds.Password = ""
	}
}
