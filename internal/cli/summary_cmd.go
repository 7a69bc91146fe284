package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/toil/internal/cli/formatter"
	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/toil"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var from, to string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show worked time and TOIL per day",
		Long: "Show worked time and TOIL per local date. Without --from and --to " +
			"the fortnight ending today is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Summary.Summary(cmd.Context(), contract.SummaryRequest{From: from, To: to})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaryJSON{
					From:   resp.From,
					To:     resp.To,
					Zone:   resp.Zone,
					Period: resp.Period,
				})
			}
			fmt.Fprint(out, formatter.FormatSummary(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First local date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last local date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

type summaryJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	Zone string `json:"timezone"`
	toil.Period
}
