package cmd

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/futurework-1/NestEgg-Journal/cmd/birds"
	"github.com/futurework-1/NestEgg-Journal/cmd/game"
	"github.com/futurework-1/NestEgg-Journal/cmd/journal"
	"github.com/futurework-1/NestEgg-Journal/cmd/serve"
	"github.com/futurework-1/NestEgg-Journal/cmd/settings"
	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/buildinfo"
	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *app.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nestegg",
		Short:         "NestEgg Journal bird catalog, field journal and memory game",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildinfo.Current().String(),
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, ctx); err != nil {
		panic(err)
	}

	serveCmd := serve.Command(ctx)
	rootCmd.AddCommand(
		birds.Command(ctx),
		journal.Command(ctx),
		game.Command(ctx),
		settings.Command(ctx),
		serveCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(ctx, cmd.Name() == serveCmd.Name())
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return ctx.Logger.Close()
	}

	return rootCmd
}

// initialize loads the settings with flags bound, then sets up logging and
// error telemetry.
func initialize(ctx *app.Context, verbose bool) error {
	settings, err := conf.Load(ctx.Viper, ctx.ConfigFile)
	if err != nil {
		return err
	}
	ctx.Settings = settings

	// One-shot commands print their own output; keep info logs for serve
	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = "debug"
		}
	} else if !verbose && settings.Logging.Console != nil {
		settings.Logging.Console.Level = "warn"
		settings.Logging.DefaultLevel = "warn"
	}

	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return errors.New(err).
			Component("cmd").
			Category(errors.CategoryConfiguration).
			Context("operation", "create-logger").
			Build()
	}
	logger.SetGlobal(cl)
	ctx.Logger = cl

	return initSentry(settings)
}

func initSentry(settings *conf.Settings) error {
	if !settings.Sentry.Enabled {
		errors.SetTelemetryReporter(errors.NewSentryReporter(false))
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      settings.Sentry.Environment,
		ServerName:       "",
		Release:          buildinfo.Current().Release(),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			event.ServerName = ""
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *app.Context) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.ConfigFile, "config", "c", "", "Path to config.yaml")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("storage", conf.StorageSQLite, "Storage backend: sqlite, mysql or memory")
	flags.String("db", "", "SQLite database path")
	flags.String("catalog", "", "Bird catalog JSON file, overriding the bundled one")
	flags.String("observations", "", "Seed observations JSON file, overriding the bundled one")

	bindings := map[string]string{
		"debug":                  "debug",
		"storage.type":           "storage",
		"storage.sqlite.path":    "db",
		"data.catalog_path":      "catalog",
		"data.observations_path": "observations",
	}
	for key, name := range bindings {
		if err := ctx.Viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
