package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/toil/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sessions service.SessionService
	Settings service.SettingsService
	Summary  service.SummaryService
	Reports  service.ReportService

	// Location is the reference zone used to print and parse local times.
	Location *time.Location
	Now      func() time.Time

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// live status view refuse to start without one.
	IsInteractive func() bool

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error
}

// GlobalOptions are the persistent flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
	DBPath     string
	Timezone   string
	Verbose    bool

	// Command is the name of the subcommand about to run.
	Command string
}

// Bootstrapper fills app from the global options before a subcommand runs
// and returns a cleanup to run afterwards.
type Bootstrapper func(ctx context.Context, opts GlobalOptions, app *App) (func() error, error)

// NewRootCmd creates the top-level "toil" command and registers all
// subcommands against the provided App. A nil boot uses app as given.
func NewRootCmd(app *App, boot Bootstrapper) *cobra.Command {
	var opts GlobalOptions
	var cleanup func() error

	root := &cobra.Command{
		Use:           "toil",
		Short:         "Time-in-lieu tracker: clock sessions and report the balance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if boot == nil {
				return nil
			}
			opts.Command = cmd.Name()
			var err error
			cleanup, err = boot(cmd.Context(), opts, app)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cleanup == nil {
				return nil
			}
			return cleanup()
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.DBPath, "db", "", "Path to the SQLite database (overrides config)")
	root.PersistentFlags().StringVar(&opts.Timezone, "tz", "", "IANA time zone for local dates (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log each service call to stderr")

	root.AddCommand(
		newClockCmd(app),
		newSessionCmd(app),
		newSummaryCmd(app),
		newReportCmd(app),
		newSettingsCmd(app),
		newStatusCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
