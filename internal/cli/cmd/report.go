package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"grafanapdf/internal/appstate"
	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var (
	reportLayout   string
	reportFile     string
	reportTemplate string
	reportFrom     string
	reportTo       string
	reportOut      string
	reportOpen     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render reports",
}

var reportPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a preview of a layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleRender(cmd.Context(), "preview", Container.AppState.GeneratePreview)
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a layout as PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleRender(cmd.Context(), "report", Container.AppState.ExportPDF)
	},
}

var reportDownloadCmd = &cobra.Command{
	Use:   "download [job-id]",
	Short: "Download the PDF of an export job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := Container.Client.DownloadReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return saveDocument(doc, "report-"+args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{reportPreviewCmd, reportExportCmd} {
		c.Flags().StringVarP(&reportLayout, "layout", "l", "", "id of a saved layout")
		c.Flags().StringVarP(&reportFile, "file", "f", "", "JSON file with a layout instead of a saved one")
		c.Flags().StringVarP(&reportTemplate, "template", "t", "", "template id")
		c.Flags().StringVar(&reportFrom, "from", appstate.DefaultTimeRange().From, "start of the time range")
		c.Flags().StringVar(&reportTo, "to", appstate.DefaultTimeRange().To, "end of the time range")
		c.MarkFlagsOneRequired("layout", "file")
		c.MarkFlagsMutuallyExclusive("layout", "file")
	}
	for _, c := range []*cobra.Command{reportPreviewCmd, reportExportCmd, reportDownloadCmd} {
		c.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default: <name>-<time>.pdf)")
		c.Flags().BoolVar(&reportOpen, "open", false, "open the PDF when done")
	}

	reportCmd.AddCommand(reportPreviewCmd, reportExportCmd, reportDownloadCmd)
	guardAll(reportCmd, router.ReportDesigner)
	RootCmd.AddCommand(reportCmd)
}

func handleRender(ctx context.Context, name string, render func(context.Context) (*sdk.Document, error)) error {
	state := Container.AppState

	var layout sdk.Layout
	if reportFile != "" {
		if err := readJSONFile(reportFile, &layout); err != nil {
			return err
		}
	} else {
		l, err := state.GetLayout(ctx, reportLayout)
		if err != nil {
			return err
		}
		layout = *l
	}

	if err := state.LoadLayout(layout); err != nil {
		return err
	}
	state.FetchServers(ctx)
	if layout.ServerID != "" && layout.ServerID != state.SelectedServerID() {
		if err := state.SelectServer(ctx, layout.ServerID); err != nil {
			return err
		}
	}
	state.SetSelectedTemplate(reportTemplate)
	state.SetTimeRange(sdk.TimeRange{From: reportFrom, To: reportTo})

	fmt.Printf("Rendering %s with %d panels...\n", name, len(layout.Panels))
	doc, err := render(ctx)
	if err != nil {
		return err
	}
	return saveDocument(doc, name)
}

func saveDocument(doc *sdk.Document, name string) error {
	out := reportOut
	if out == "" {
		out = fmt.Sprintf("%s-%s.pdf", name, time.Now().Format("20060102-150405"))
	}
	if err := os.WriteFile(out, doc.Data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", out, err)
	}

	abs, err := filepath.Abs(out)
	if err != nil {
		abs = out
	}
	printOK("Saved %s (%d bytes).", abs, len(doc.Data))

	if reportOpen {
		if err := browser.OpenFile(abs); err != nil {
			return fmt.Errorf("error opening %s: %w", abs, err)
		}
	}
	return nil
}
