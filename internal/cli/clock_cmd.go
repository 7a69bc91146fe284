package cli

import (
	"fmt"

	"github.com/alexanderramin/toil/internal/cli/formatter"
	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newClockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Clock in and out",
	}

	cmd.AddCommand(
		newClockInCmd(app),
		newClockOutCmd(app),
	)

	return cmd
}

// detailFlags binds the descriptive session flags shared by clock in and
// session add.
type detailFlags struct {
	location string
	notes    string
	lat      float64
	lng      float64
}

func (d *detailFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&d.location, "location", "", "Location label")
	fs.StringVar(&d.notes, "notes", "", "Free-text notes")
	fs.Float64Var(&d.lat, "lat", 0, "Latitude")
	fs.Float64Var(&d.lng, "lng", 0, "Longitude")
}

func (d *detailFlags) details(fs *pflag.FlagSet) domain.SessionDetails {
	var out domain.SessionDetails
	if fs.Changed("location") {
		out.LocationLabel = &d.location
	}
	if fs.Changed("notes") {
		out.Notes = &d.notes
	}
	if fs.Changed("lat") {
		out.Latitude = &d.lat
	}
	if fs.Changed("lng") {
		out.Longitude = &d.lng
	}
	return out
}

func newClockInCmd(app *App) *cobra.Command {
	var at, key string
	var details detailFlags

	cmd := &cobra.Command{
		Use:   "in",
		Short: "Start a work session",
		Long: "Start a work session. If a session started within the look-back " +
			"window is still open, it is reported instead of opening another.",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := app.location()
			startedAt, err := parseOptionalWhen(at, app.now(), loc)
			if err != nil {
				return err
			}

			resp, err := app.Sessions.ClockIn(cmd.Context(), contract.ClockInRequest{
				StartedAt:      startedAt,
				Details:        details.details(cmd.Flags()),
				IdempotencyKey: key,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s := resp.Session
			if resp.AlreadyClockedIn {
				fmt.Fprintf(out, "%s since %s (%s)\n",
					formatter.StyleYellow.Render("Already clocked in"),
					formatter.ClockTime(s.StartedAt, loc),
					formatter.TruncID(s.ID))
				return nil
			}
			fmt.Fprintf(out, "%s at %s (%s)\n",
				formatter.StyleGreen.Render("Clocked in"),
				formatter.ClockTime(s.StartedAt, loc),
				formatter.TruncID(s.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM, \"YYYY-MM-DD HH:MM\" or RFC 3339); defaults to now")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key recorded with the event")
	details.register(cmd.Flags())

	return cmd
}

func newClockOutCmd(app *App) *cobra.Command {
	var at, key string

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Close the running work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := app.location()
			endedAt, err := parseOptionalWhen(at, app.now(), loc)
			if err != nil {
				return err
			}

			resp, err := app.Sessions.ClockOut(cmd.Context(), contract.ClockOutRequest{
				EndedAt:        endedAt,
				IdempotencyKey: key,
			})
			if err != nil {
				return err
			}

			s := resp.Session
			fmt.Fprintf(cmd.OutOrStdout(), "%s at %s after %s (%s)\n",
				formatter.StyleGreen.Render("Clocked out"),
				formatter.ClockTime(*s.EndedAt, loc),
				formatter.ElapsedSince(s.StartedAt, *s.EndedAt),
				formatter.TruncID(s.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "End time (HH:MM, \"YYYY-MM-DD HH:MM\" or RFC 3339); defaults to now")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key recorded with the event")

	return cmd
}
