package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"grafanapdf/internal/cli/ui"
	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var loginUser, loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the report API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogin(cmd, false)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the first administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogin(cmd, true)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		Container.Session.Logout(cmd.Context())
		printOK("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleWhoami(cmd)
	},
}

var currentPassword, newPassword string
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := enter(cmd.Context(), router.Home); err != nil {
			return err
		}
		if err := Container.Session.ChangePassword(cmd.Context(), currentPassword, newPassword); err != nil {
			return errors.New(Container.Session.Snapshot().Error)
		}
		printOK("Password changed.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, setupCmd} {
		c.Flags().StringVarP(&loginUser, "username", "u", "", "username")
		c.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	}
	passwdCmd.Flags().StringVar(&currentPassword, "current", "", "current password")
	passwdCmd.Flags().StringVar(&newPassword, "new", "", "new password")
	passwdCmd.MarkFlagRequired("current")
	passwdCmd.MarkFlagRequired("new")

	RootCmd.AddCommand(loginCmd, setupCmd, logoutCmd, whoamiCmd, passwdCmd)
}

var validate = validator.New()

func handleLogin(cmd *cobra.Command, firstRun bool) error {
	ctx := cmd.Context()

	status, err := Container.Client.CheckSetupStatus(ctx)
	if err != nil {
		return fmt.Errorf("error checking setup status: %w", err)
	}
	if status.NeedsSetup && !firstRun {
		return errors.New("no user exists yet: run 'grafana-pdf setup' to create the administrator")
	}
	if !status.NeedsSetup && firstRun {
		return errors.New("setup has already been completed: use 'grafana-pdf login'")
	}

	creds := sdk.Credentials{Username: loginUser, Password: loginPassword}
	if creds.Username == "" || creds.Password == "" {
		var ok bool
		creds, ok = ui.RunLoginForm(creds, firstRun, "")
		if !ok {
			return errors.New("login cancelled")
		}
	}
	if err := validate.Struct(creds); err != nil {
		return errors.New("username and password are required")
	}

	if firstRun {
		err = Container.Session.SetupUser(ctx, creds)
	} else {
		err = Container.Session.Login(ctx, creds)
	}
	if err != nil {
		return errors.New(Container.Session.Snapshot().Error)
	}

	st := Container.Session.Snapshot()
	name := creds.Username
	if st.User != nil && st.User.DisplayName != "" {
		name = st.User.DisplayName
	}
	printOK("Logged in as %s.", name)
	if st.Error != "" {
		fmt.Printf("Warning: %s\n", st.Error)
	}
	return nil
}

func handleWhoami(cmd *cobra.Command) error {
	if !Container.Session.CheckAuth(cmd.Context()) {
		return ErrNotLoggedIn
	}
	st := Container.Session.Snapshot()
	if JSONOutput {
		return printJSON(st.User)
	}

	fmt.Println("\n--- SESSION ---")
	fmt.Printf("Username:  %s\n", st.User.Username)
	if st.User.DisplayName != "" {
		fmt.Printf("Name:      %s\n", st.User.DisplayName)
	}
	fmt.Printf("Admin:     %s\n", yesNo(st.User.IsAdmin))
	if st.User.AuthType != "" {
		fmt.Printf("Auth type: %s\n", st.User.AuthType)
	}
	fmt.Printf("API:       %s\n", Container.Client.BaseURL())
	if exp, ok := Container.Session.TokenExpiry(); ok {
		fmt.Printf("Expires:   %s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Minute))
	}
	return nil
}
