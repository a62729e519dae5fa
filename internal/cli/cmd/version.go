package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"grafanapdf/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the client and backend versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := version.Check(cmd.Context(), Container.Client)
		if err != nil {
			fmt.Printf("Client version: %s\n", version.Current)
			return err
		}
		if JSONOutput {
			return printJSON(info)
		}

		fmt.Println("\n--- VERSION ---")
		fmt.Printf("Client version:  %s\n", info.ClientVersion)
		fmt.Printf("Backend version: %s (%s)\n", info.BackendVersion, info.BackendStatus)
		fmt.Printf("API:             %s\n", Container.Client.BaseURL())

		switch {
		case info.BackendNewer:
			fmt.Println("\nThe backend is newer than this client, consider updating.")
		case info.ClientNewer:
			fmt.Println("\nThis client is newer than the backend.")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
