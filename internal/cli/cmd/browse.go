package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"grafanapdf/internal/router"
)

var browseServer string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse organizations, dashboards and panels of a Grafana server",
}

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := useServer(ctx); err != nil {
			return err
		}
		state := Container.AppState
		state.FetchOrganizations(ctx, "")

		st := state.Snapshot()
		if st.Error != "" {
			return fmt.Errorf("error listing organizations: %s", st.Error)
		}
		rows := make([][]string, 0, len(st.Organizations))
		for _, o := range st.Organizations {
			rows = append(rows, []string{strconv.FormatInt(o.ID, 10), o.Name})
		}
		return printTable(st.Organizations, []string{"ID", "Name"}, rows)
	},
}

var dashboardsCmd = &cobra.Command{
	Use:   "dashboards [org-id]",
	Short: "List the dashboards of an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid organization id %q", args[0])
		}
		ctx := cmd.Context()
		if err := useServer(ctx); err != nil {
			return err
		}
		state := Container.AppState
		state.FetchDashboards(ctx, orgID)

		st := state.Snapshot()
		if st.Error != "" {
			return fmt.Errorf("error listing dashboards: %s", st.Error)
		}
		rows := make([][]string, 0, len(st.Dashboards))
		for _, d := range st.Dashboards {
			rows = append(rows, []string{d.UID, d.Title, d.FolderTitle, strings.Join(d.Tags, ",")})
		}
		return printTable(st.Dashboards, []string{"UID", "Title", "Folder", "Tags"}, rows)
	},
}

var panelsCmd = &cobra.Command{
	Use:   "panels [dashboard-uid]",
	Short: "List the panels of a dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := useServer(ctx); err != nil {
			return err
		}
		state := Container.AppState
		state.FetchPanels(ctx, args[0])

		st := state.Snapshot()
		if st.Error != "" {
			return fmt.Errorf("error listing panels: %s", st.Error)
		}
		rows := make([][]string, 0, len(st.Panels))
		for _, p := range st.Panels {
			rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Title, p.Type})
		}
		return printTable(st.Panels, []string{"ID", "Title", "Type"}, rows)
	},
}

// useServer loads the server list, which selects the default server, and switches to
// --server when given.
func useServer(ctx context.Context) error {
	state := Container.AppState
	state.ClearError()
	state.FetchServers(ctx)
	if msg := state.Snapshot().Error; msg != "" {
		return fmt.Errorf("error listing servers: %s", msg)
	}
	if browseServer == "" || browseServer == state.SelectedServerID() {
		return nil
	}
	return state.SelectServer(ctx, browseServer)
}

func init() {
	browseCmd.PersistentFlags().StringVar(&browseServer, "server", "", "Grafana server id (default: the default server)")
	browseCmd.AddCommand(orgsCmd, dashboardsCmd, panelsCmd)
	guardAll(browseCmd, router.ReportDesigner)
	RootCmd.AddCommand(browseCmd)
}
