package cmd

import (
	"github.com/spf13/cobra"

	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "Manage report templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := Container.AppState
		state.FetchTemplates(cmd.Context())
		st := state.Snapshot()
		if st.Error != "" {
			return listError("templates", st.Error)
		}
		rows := make([][]string, 0, len(st.Templates))
		for _, t := range st.Templates {
			rows = append(rows, []string{t.ID, t.Name, t.Modified})
		}
		return printTable(st.Templates, []string{"ID", "Name", "Modified"}, rows)
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := Container.AppState.GetTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(t)
	},
}

var templateFile string

var templatesSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a template from a JSON file",
	Long:  "Create or update a template from a JSON file. A document with an id updates that template.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var t sdk.Template
		if err := readJSONFile(templateFile, &t); err != nil {
			return err
		}
		resp, err := Container.AppState.SaveTemplate(cmd.Context(), t)
		if err != nil {
			return err
		}
		printSaved("Template", t.Name, t.ID, resp)
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Container.AppState.DeleteTemplate(cmd.Context(), args[0]); err != nil {
			return err
		}
		printOK("Template %s deleted.", args[0])
		return nil
	},
}

func init() {
	templatesSaveCmd.Flags().StringVarP(&templateFile, "file", "f", "-", "JSON file with the template")
	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesSaveCmd, templatesDeleteCmd)
	guardAll(templatesCmd, router.Templates)
	RootCmd.AddCommand(templatesCmd)
}

func printSaved(kind, name, id string, resp *sdk.StatusResponse) {
	if id == "" {
		id = resp.ID
		printOK("%s %s created (%s).", kind, name, id)
		return
	}
	printOK("%s %s updated.", kind, name)
}
