package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/toil/internal/cli/formatter"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the TOIL policy and report preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(cmd, app)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showSettings(cmd, app)
			},
		},
		newSettingsSetCmd(app),
		newSettingsEditCmd(app),
	)

	return cmd
}

func showSettings(cmd *cobra.Command, app *App) error {
	s, err := app.Settings.Get(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(s))
	return nil
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var (
		standard, overtime           int
		rounding                     domain.RoundingRule
		allowNegative                bool
		clearOvertime, clearGeofence bool
		geofence, subject, footer    string
		recipients                   []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change individual settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			var patch domain.SettingsPatch
			if fs.Changed("standard-minutes") {
				patch.StandardDailyMinutes = &standard
			}
			if fs.Changed("rounding") {
				patch.RoundingRule = &rounding
			}
			if fs.Changed("allow-negative") {
				patch.AllowNegativeTil = &allowNegative
			}
			if fs.Changed("overtime-after") {
				p := &overtime
				patch.OvertimeStartsAfterMinutes = &p
			} else if clearOvertime {
				patch.OvertimeStartsAfterMinutes = new(*int)
			}
			if fs.Changed("geofence") {
				p := &geofence
				patch.WorkLocationGeofenceName = &p
			} else if clearGeofence {
				patch.WorkLocationGeofenceName = new(*string)
			}
			if fs.Changed("recipient") {
				patch.ReportRecipientEmails = &recipients
			}
			if fs.Changed("subject") {
				patch.ReportSubjectTemplate = &subject
			}
			if fs.Changed("footer") {
				patch.ReportFooter = &footer
			}

			s, err := app.Settings.Update(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(s))
			return nil
		},
	}

	rounding = domain.RoundNone
	fs := cmd.Flags()
	fs.IntVar(&standard, "standard-minutes", domain.DefaultStandardDailyMinutes, "Minutes in a standard working day (1-1440)")
	fs.Var(&rounding, "rounding", "Daily rounding: NONE, NEAREST_5, NEAREST_10 or NEAREST_15")
	fs.BoolVar(&allowNegative, "allow-negative", false, "Let a short day count against the balance")
	fs.IntVar(&overtime, "overtime-after", 0, "Minutes after which overtime starts")
	fs.BoolVar(&clearOvertime, "clear-overtime", false, "Unset the overtime threshold")
	fs.StringVar(&geofence, "geofence", "", "Work location geofence name")
	fs.BoolVar(&clearGeofence, "clear-geofence", false, "Unset the geofence name")
	fs.StringSliceVar(&recipients, "recipient", nil, "Report recipient email; repeat or comma-separate, replaces the list")
	fs.StringVar(&subject, "subject", "", "Report subject template with {from} and {to}")
	fs.StringVar(&footer, "footer", "", "Report footer text")
	cmd.MarkFlagsMutuallyExclusive("overtime-after", "clear-overtime")
	cmd.MarkFlagsMutuallyExclusive("geofence", "clear-geofence")

	return cmd
}

func newSettingsEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit every setting in an interactive form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("settings edit needs an interactive terminal; use \"settings set\" instead")
			}
			current, err := app.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}

			values := newSettingsFormValues(current)
			if err := settingsForm(values).RunWithContext(cmd.Context()); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No changes saved."))
					return nil
				}
				return err
			}
			patch, err := values.patch()
			if err != nil {
				return err
			}
			s, err := app.Settings.Update(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(s))
			return nil
		},
	}
}
