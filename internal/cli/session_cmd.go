package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/toil/internal/cli/formatter"
	"github.com/alexanderramin/toil/internal/contract"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage work sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(app),
		newSessionShowCmd(app),
		newSessionAddCmd(app),
		newSessionEditCmd(app),
		newSessionRemoveCmd(app),
	)

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions by local start date, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.List(cmd.Context(), contract.ListSessionsRequest{From: from, To: to})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("Sessions",
				formatter.FormatSessionList(sessions, app.now(), app.location())))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First local date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last local date (YYYY-MM-DD)")

	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one session with its breaks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Sessions.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSession(s, app.location()))
			return nil
		},
	}
}

func newSessionAddCmd(app *App) *cobra.Command {
	var start, end string
	var breaks []string
	var details detailFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a session by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := app.location()
			startedAt, err := parseWhen(start, app.now(), loc)
			if err != nil {
				return err
			}
			endedAt, err := parseOptionalWhen(end, startedAt, loc)
			if err != nil {
				return err
			}
			breakInputs, err := anchorBreaks(breaks, startedAt, loc)
			if err != nil {
				return err
			}

			resp, err := app.Sessions.Create(cmd.Context(), contract.CreateSessionRequest{
				StartedAt: startedAt,
				EndedAt:   endedAt,
				Details:   details.details(cmd.Flags()),
				Breaks:    breakInputs,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added session %s\n", formatter.TruncID(resp.Session.ID))
			if resp.Warning != "" {
				fmt.Fprintf(out, "%s %s\n",
					formatter.StyleYellow.Render("WARNING: "+resp.Warning),
					formatter.Dim("(overlaps "+resp.OverlappingSessionID+")"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, \"YYYY-MM-DD HH:MM\" or RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time; omit to leave the session open")
	cmd.Flags().StringArrayVar(&breaks, "break", nil, "Break as START/END, repeatable")
	details.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newSessionEditCmd(app *App) *cobra.Command {
	var start, end string
	var breaks []string
	var details detailFlags
	var clearEnd, clearLocation, clearNotes, clearCoords, clearBreaks bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a session; the session is marked edited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			existing, err := app.Sessions.GetByID(ctx, id)
			if err != nil {
				return err
			}

			loc := app.location()
			fs := cmd.Flags()
			var req contract.UpdateSessionRequest

			anchor := existing.StartedAt
			if fs.Changed("start") {
				s, err := parseWhen(start, existing.StartedAt, loc)
				if err != nil {
					return err
				}
				req.StartedAt = &s
				anchor = s
			}
			if fs.Changed("end") {
				e, err := parseWhen(end, anchor, loc)
				if err != nil {
					return err
				}
				ep := &e
				req.EndedAt = &ep
			} else if clearEnd {
				req.EndedAt = new(*time.Time)
			}
			d := details.details(fs)
			if d.LocationLabel != nil {
				req.LocationLabel = &d.LocationLabel
			} else if clearLocation {
				req.LocationLabel = new(*string)
			}
			if d.Notes != nil {
				req.Notes = &d.Notes
			} else if clearNotes {
				req.Notes = new(*string)
			}
			if d.Latitude != nil {
				req.Latitude = &d.Latitude
			}
			if d.Longitude != nil {
				req.Longitude = &d.Longitude
			}
			if clearCoords {
				req.Latitude = new(*float64)
				req.Longitude = new(*float64)
			}
			if fs.Changed("break") || clearBreaks {
				breakInputs, err := anchorBreaks(breaks, anchor, loc)
				if err != nil {
					return err
				}
				req.Breaks = &breakInputs
			}

			updated, err := app.Sessions.Update(ctx, id, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSession(updated, loc))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time")
	cmd.Flags().StringVar(&end, "end", "", "New end time")
	cmd.Flags().BoolVar(&clearEnd, "reopen", false, "Clear the end time")
	cmd.Flags().StringArrayVar(&breaks, "break", nil, "Replace all breaks; START/END, repeatable")
	cmd.Flags().BoolVar(&clearBreaks, "clear-breaks", false, "Remove all breaks")
	cmd.Flags().BoolVar(&clearLocation, "clear-location", false, "Clear the location label")
	cmd.Flags().BoolVar(&clearNotes, "clear-notes", false, "Clear the notes")
	cmd.Flags().BoolVar(&clearCoords, "clear-coords", false, "Clear latitude and longitude")
	details.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("end", "reopen")
	cmd.MarkFlagsMutuallyExclusive("break", "clear-breaks")
	cmd.MarkFlagsMutuallyExclusive("location", "clear-location")
	cmd.MarkFlagsMutuallyExclusive("notes", "clear-notes")

	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a session and its breaks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Sessions.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
