package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var schedulesCmd = &cobra.Command{
	Use:     "schedules",
	Aliases: []string{"schedule"},
	Short:   "Manage scheduled report exports",
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := Container.AppState
		state.FetchSchedules(cmd.Context())
		st := state.Snapshot()
		if st.Error != "" {
			return listError("schedules", st.Error)
		}
		rows := make([][]string, 0, len(st.Schedules))
		for _, s := range st.Schedules {
			rows = append(rows, []string{s.ID, s.Name, s.Status, s.LayoutID, strings.Join(s.Recipients, ", ")})
		}
		return printTable(st.Schedules, []string{"ID", "Name", "Status", "Layout", "Recipients"}, rows)
	},
}

var scheduleFile string

var schedulesSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a schedule from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var s sdk.Schedule
		if err := readJSONFile(scheduleFile, &s); err != nil {
			return err
		}
		resp, err := Container.AppState.SaveSchedule(cmd.Context(), s)
		if err != nil {
			return err
		}
		printSaved("Schedule", s.Name, s.ID, resp)
		return nil
	},
}

var schedulesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Container.AppState.DeleteSchedule(cmd.Context(), args[0]); err != nil {
			return err
		}
		printOK("Schedule %s deleted.", args[0])
		return nil
	},
}

var schedulesHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show the runs of a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := Container.AppState.FetchScheduleHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{r.Timestamp, r.Status, r.FileName, r.Message})
		}
		return printTable(runs, []string{"Time", "Status", "File", "Message"}, rows)
	},
}

func init() {
	schedulesSaveCmd.Flags().StringVarP(&scheduleFile, "file", "f", "-", "JSON file with the schedule")
	schedulesCmd.AddCommand(schedulesListCmd, schedulesSaveCmd, schedulesDeleteCmd, schedulesHistoryCmd)
	guardAll(schedulesCmd, router.Schedules)
	RootCmd.AddCommand(schedulesCmd)
}
