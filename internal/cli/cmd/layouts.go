package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var layoutsCmd = &cobra.Command{
	Use:     "layouts",
	Aliases: []string{"layout"},
	Short:   "Manage saved report layouts",
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List layouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := Container.AppState
		state.FetchLayouts(cmd.Context())
		st := state.Snapshot()
		if st.Error != "" {
			return listError("layouts", st.Error)
		}
		rows := make([][]string, 0, len(st.Layouts))
		for _, l := range st.Layouts {
			grid := fmt.Sprintf("%dx%d", l.Rows, l.Columns)
			rows = append(rows, []string{l.ID, l.Name, grid, fmt.Sprint(len(l.Panels)), l.ServerID, l.Modified})
		}
		return printTable(st.Layouts, []string{"ID", "Name", "Grid", "Panels", "Server", "Modified"}, rows)
	},
}

var layoutsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := Container.AppState.GetLayout(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(l)
	},
}

var layoutFile string

var layoutsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a layout from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var l sdk.Layout
		if err := readJSONFile(layoutFile, &l); err != nil {
			return err
		}

		// The draft validates the grid before anything is sent.
		state := Container.AppState
		if err := state.LoadLayout(l); err != nil {
			return err
		}
		if l.ServerID == "" {
			state.FetchServers(cmd.Context())
		}

		resp, err := state.SaveLayout(cmd.Context(), l)
		if err != nil {
			return err
		}
		printSaved("Layout", l.Name, l.ID, resp)
		return nil
	},
}

var layoutsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Container.AppState.DeleteLayout(cmd.Context(), args[0]); err != nil {
			return err
		}
		printOK("Layout %s deleted.", args[0])
		return nil
	},
}

func init() {
	layoutsSaveCmd.Flags().StringVarP(&layoutFile, "file", "f", "-", "JSON file with the layout")
	layoutsCmd.AddCommand(layoutsListCmd, layoutsShowCmd, layoutsSaveCmd, layoutsDeleteCmd)
	guardAll(layoutsCmd, router.Layouts)
	RootCmd.AddCommand(layoutsCmd)
}

func listError(what, msg string) error {
	return fmt.Errorf("error listing %s: %s", what, msg)
}
