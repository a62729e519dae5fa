package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"grafanapdf/internal/appstate"
	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the application settings (administrators only)",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := Container.AppState.GetSettings(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(settings)
	},
}

var settingsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the settings are initialized",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := Container.AppState.CheckSettingsInitialized(cmd.Context())
		if err != nil {
			return err
		}
		if JSONOutput {
			return printJSON(status)
		}
		fmt.Printf("Initialized: %s\n", yesNo(status.Complete()))
		if status.Reason != "" {
			fmt.Printf("Reason:      %s\n", status.Reason)
		}
		return nil
	},
}

var settingsFile string

var settingsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace the settings with a JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		var settings sdk.Settings
		if err := readJSONFile(settingsFile, &settings); err != nil {
			return err
		}
		if _, err := Container.AppState.UpdateSettings(cmd.Context(), settings); err != nil {
			return err
		}
		printOK("Settings saved.")
		return nil
	},
}

var settingsApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the saved settings on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := Container.AppState.ApplySettings(cmd.Context())
		if err != nil {
			return err
		}
		printOK("Settings applied. %s", resp.Message)
		return nil
	},
}

var settingsTestCmd = &cobra.Command{
	Use:       "test [grafana|email|ldap]",
	Short:     "Test a connection with the saved settings, or with --file",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(appstate.ConnectionGrafana), string(appstate.ConnectionEmail), string(appstate.ConnectionLdap)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cobra.OnlyValidArgs(cmd, args); err != nil {
			return err
		}

		ctx := cmd.Context()
		var settings sdk.Settings
		if cmd.Flags().Changed("file") {
			if err := readJSONFile(settingsFile, &settings); err != nil {
				return err
			}
		} else {
			var err error
			if settings, err = Container.AppState.GetSettings(ctx); err != nil {
				return err
			}
		}

		result, err := Container.AppState.TestConnection(ctx, appstate.ConnectionKind(args[0]), settings)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	settingsUpdateCmd.Flags().StringVarP(&settingsFile, "file", "f", "-", "JSON file with the settings")
	settingsTestCmd.Flags().StringVarP(&settingsFile, "file", "f", "", "JSON file with settings to test instead of the saved ones")

	settingsCmd.AddCommand(settingsShowCmd, settingsStatusCmd, settingsUpdateCmd, settingsApplyCmd, settingsTestCmd)
	guardAll(settingsCmd, router.Settings)
	RootCmd.AddCommand(settingsCmd)
}
