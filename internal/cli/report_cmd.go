package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var from, to, format, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a TOIL report as text, CSV or HTML",
		Long: "Render a TOIL report for a date range. The report goes to stdout " +
			"unless -o names a file; \"-o .\" uses the suggested file name.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := contract.ParseReportFormat(format)
			if err != nil {
				return err
			}
			resp, err := app.Reports.Render(cmd.Context(), contract.ReportRequest{
				SummaryRequest: contract.SummaryRequest{From: from, To: to},
				Format:         f,
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(resp.Body)
				return err
			}
			if output == "." {
				output = resp.Filename
			}
			if err := os.WriteFile(output, resp.Body, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", output, resp.Subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First local date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last local date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&format, "format", "f", string(contract.ReportText), "Report format: text, csv or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}
