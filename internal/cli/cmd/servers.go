package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"grafanapdf/internal/cli/ui"
	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var serversCmd = &cobra.Command{
	Use:     "servers",
	Aliases: []string{"server"},
	Short:   "Manage Grafana servers",
}

var serversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Grafana servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := Container.AppState
		state.FetchServers(cmd.Context())
		st := state.Snapshot()
		if st.Error != "" {
			return fmt.Errorf("error listing servers: %s", st.Error)
		}

		rows := make([][]string, 0, len(st.Servers))
		for _, s := range st.Servers {
			marker := ""
			if s.ID == st.SelectedServerID {
				marker = "*"
			}
			rows = append(rows, []string{marker, s.ID, s.Name, s.URL, yesNo(s.IsDefault)})
		}
		return printTable(st.Servers, []string{"", "ID", "Name", "URL", "Default"}, rows)
	},
}

var serversShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a Grafana server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := Container.AppState.GetServer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		server.Password = ""
		server.APIKey = ""
		return printJSON(server)
	},
}

var serverFile string

var serversAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a Grafana server from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var server sdk.GrafanaServer
		if err := readJSONFile(serverFile, &server); err != nil {
			return err
		}
		resp, err := Container.AppState.CreateServer(cmd.Context(), server)
		if err != nil {
			return err
		}
		printOK("Server %s added (%s).", server.Name, resp.ID)
		return nil
	},
}

var serversUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a Grafana server from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var server sdk.GrafanaServer
		if err := readJSONFile(serverFile, &server); err != nil {
			return err
		}
		server.ID = args[0]
		if _, err := Container.AppState.UpdateServer(cmd.Context(), args[0], server); err != nil {
			return err
		}
		printOK("Server %s updated.", args[0])
		return nil
	},
}

var serversDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a Grafana server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Container.AppState.DeleteServer(cmd.Context(), args[0]); err != nil {
			return err
		}
		printOK("Server %s deleted.", args[0])
		return nil
	},
}

var serversTestCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Test the connection to a Grafana server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := Container.AppState.TestServerConnection(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var serversSelectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Make a server the active one (interactive without id)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			ui.RunServerPicker(cmd.Context(), Container)
			return nil
		}
		if err := Container.AppState.SelectServer(cmd.Context(), args[0]); err != nil {
			return err
		}
		st := Container.AppState.Snapshot()
		printOK("Server %s selected, %d organizations available.", args[0], len(st.Organizations))
		return nil
	},
}

func init() {
	serversAddCmd.Flags().StringVarP(&serverFile, "file", "f", "-", "JSON file with the server definition")
	serversUpdateCmd.Flags().StringVarP(&serverFile, "file", "f", "-", "JSON file with the server definition")

	serversCmd.AddCommand(serversListCmd, serversShowCmd, serversSelectCmd)
	guardAll(serversCmd, router.ReportDesigner)

	serversCmd.AddCommand(serversAddCmd, serversUpdateCmd, serversDeleteCmd, serversTestCmd)
	for _, c := range []*cobra.Command{serversAddCmd, serversUpdateCmd, serversDeleteCmd, serversTestCmd} {
		c.PreRunE = requireRoute(router.Settings)
	}
	RootCmd.AddCommand(serversCmd)
}

// printResult prints a connection test outcome.
func printResult(result sdk.ConnectionResult) error {
	if JSONOutput {
		return printJSON(result)
	}
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-10s %v\n", k+":", result[k])
	}
	return nil
}
