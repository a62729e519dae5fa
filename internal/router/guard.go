package router

import (
	"context"
	"fmt"

	"grafanapdf/internal/logging"
	"grafanapdf/pkg/sdk"
)

// Policy decides what a failing check means for the navigation.
type Policy int

const (
	// FailClosed redirects to Login when the check errors.
	FailClosed Policy = iota
	// FailOpen logs the error and moves on to the next check.
	FailOpen
)

func (p Policy) String() string {
	if p == FailOpen {
		return "fail-open"
	}
	return "fail-closed"
}

// Check returns the name of the route to redirect to, or "" to let the navigation pass.
type Check struct {
	Name   string
	Policy Policy
	Run    func(ctx context.Context, to Route) (redirect string, err error)
}

type SetupStatusChecker interface {
	CheckSetupStatus(ctx context.Context) (*sdk.SetupStatus, error)
}

type SettingsChecker interface {
	CheckSettingsInitialized(ctx context.Context) (*sdk.SettingsInitialized, error)
}

// Authenticator is implemented by *session.Session.
type Authenticator interface {
	IsAuthenticated() bool
	CheckAuth(ctx context.Context) bool
	IsAdmin() bool
}

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Redirect string
	Check    string
	Err      error
}

func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

type Guard struct {
	checks []Check
}

func NewGuard(checks ...Check) *Guard {
	return &Guard{checks: checks}
}

// DefaultChecks returns setup status, authentication, admin permission and settings
// initialisation, in that order. Only the settings check fails open.
func DefaultChecks(setup SetupStatusChecker, auth Authenticator, settings SettingsChecker) []Check {
	return []Check{
		{
			Name:   "setup-status",
			Policy: FailClosed,
			Run: func(ctx context.Context, _ Route) (string, error) {
				status, err := setup.CheckSetupStatus(ctx)
				if err != nil {
					return "", err
				}
				if status.NeedsSetup {
					return Login, nil
				}
				return "", nil
			},
		},
		{
			Name:   "authentication",
			Policy: FailClosed,
			Run: func(ctx context.Context, _ Route) (string, error) {
				if !auth.IsAuthenticated() && !auth.CheckAuth(ctx) {
					return Login, nil
				}
				return "", nil
			},
		},
		{
			Name:   "admin",
			Policy: FailClosed,
			Run: func(_ context.Context, to Route) (string, error) {
				if to.AdminOnly && !auth.IsAdmin() {
					return Home, nil
				}
				return "", nil
			},
		},
		{
			Name:   "settings-initialized",
			Policy: FailOpen,
			Run: func(ctx context.Context, to Route) (string, error) {
				if to.Name == Settings {
					return "", nil
				}
				status, err := settings.CheckSettingsInitialized(ctx)
				if err != nil {
					return "", err
				}
				if !status.Complete() {
					return Settings, nil
				}
				return "", nil
			},
		},
	}
}

// Evaluate runs the checks for a route that requires authentication and stops at the
// first one asking for a redirect. Anonymous routes always pass.
func (g *Guard) Evaluate(ctx context.Context, to Route) Decision {
	if !to.RequiresAuth {
		return Decision{}
	}

	log := logging.With().Str("component", "guard").Str("route", to.Name).Logger()
	for _, check := range g.checks {
		redirect, err := runCheck(ctx, check, to)
		if err != nil {
			if check.Policy == FailOpen {
				log.Warn().Err(err).Str("check", check.Name).Msg("check failed, continuing")
				continue
			}
			log.Error().Err(err).Str("check", check.Name).Msg("check failed, redirecting to login")
			return Decision{Redirect: Login, Check: check.Name, Err: err}
		}
		if redirect != "" {
			log.Info().Str("check", check.Name).Str("redirect", redirect).Msg("navigation redirected")
			return Decision{Redirect: redirect, Check: check.Name}
		}
	}
	return Decision{}
}

func runCheck(ctx context.Context, check Check, to Route) (redirect string, err error) {
	defer func() {
		if r := recover(); r != nil {
			redirect = ""
			err = fmt.Errorf("check %s panicked: %v", check.Name, r)
		}
	}()
	return check.Run(ctx, to)
}
