package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alexanderramin/toil/internal/cli"
	"github.com/alexanderramin/toil/internal/config"
	"github.com/alexanderramin/toil/internal/db"
	"github.com/alexanderramin/toil/internal/httpapi"
	"github.com/alexanderramin/toil/internal/metrics"
	"github.com/alexanderramin/toil/internal/repository"
	"github.com/alexanderramin/toil/internal/service"
	"github.com/alexanderramin/toil/internal/toil"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var closeOnce sync.Once
	var closeDB func() error
	shutdown := func() error {
		var err error
		closeOnce.Do(func() {
			if closeDB != nil {
				err = closeDB()
			}
		})
		return err
	}
	defer shutdown()

	app := &cli.App{}
	boot := func(ctx context.Context, opts cli.GlobalOptions, app *cli.App) (func() error, error) {
		closer, err := bootstrap(opts, app)
		if err != nil {
			return nil, err
		}
		closeDB = closer
		return shutdown, nil
	}

	rootCmd := cli.NewRootCmd(app, boot)
	return rootCmd.Execute()
}

// bootstrap loads configuration, opens the store and wires every service
// into app. The returned func closes the database.
func bootstrap(opts cli.GlobalOptions, app *cli.App) (func() error, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.Database.Path = opts.DBPath
	}
	if opts.Timezone != "" {
		cfg.Timezone = opts.Timezone
	}

	logger := setupLogger(cfg.Logging, os.Stderr)

	zones, err := toil.NewZoneCache(0)
	if err != nil {
		return nil, err
	}
	loc, err := zones.Load(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug().Str("path", cfg.Database.Path).Str("timezone", loc.String()).Msg("database opened")

	serving := opts.Command == "serve"
	m := metrics.New()
	observers := []service.UseCaseObserver{m}
	if serving || opts.Verbose {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	svcOpts := service.Options{
		Location:            loc,
		OpenSessionLookback: cfg.Clock.OpenSessionLookback,
	}
	uow := db.NewSQLiteUnitOfWork(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)

	settingsSvc := service.NewSettingsService(uow, svcOpts, observers...)
	summarySvc := service.NewSummaryService(sessionRepo, settingsSvc, svcOpts, observers...)

	app.Sessions = service.NewSessionService(sessionRepo, uow, svcOpts, observers...)
	app.Settings = settingsSvc
	app.Summary = summarySvc
	app.Reports = service.NewReportService(summarySvc, svcOpts, observers...)
	app.Location = loc

	// Detect interactive terminal for forms and the live status view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		handler := httpapi.NewRouter(httpapi.Services{
			Sessions: app.Sessions,
			Settings: app.Settings,
			Summary:  app.Summary,
			Reports:  app.Reports,
		}, httpapi.Options{
			APIKey:          cfg.Server.APIKey,
			CORSOrigin:      cfg.Server.CORSOrigin,
			RateLimit:       cfg.Server.RateLimit,
			RateLimitWindow: cfg.Server.RateLimitWindow,
			Production:      cfg.Server.Production,
			Metrics:         m,
			Logger:          logger,
		})
		if cfg.Server.APIKey == "" {
			logger.Warn().Msg("server.api_key is empty; the API accepts unauthenticated requests")
		}
		return httpapi.NewServer(cfg.Server.Addr, handler, cfg.Server.ShutdownTimeout, logger).Run(ctx)
	}

	return database.Close, nil
}

// setupLogger configures the logger based on configuration.
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
}
