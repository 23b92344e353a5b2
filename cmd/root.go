package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/StateFromJakeFarm/research/cmd/batch"
	"github.com/StateFromJakeFarm/research/cmd/configcmd"
	"github.com/StateFromJakeFarm/research/cmd/folds"
	"github.com/StateFromJakeFarm/research/cmd/scrape"
	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/observability"
	"github.com/StateFromJakeFarm/research/internal/telemetry"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *conf.Context, m *observability.Metrics) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sounds",
		Short:         "UrbanSound8K batcher and sound-file scraper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if ctx.Build != nil {
		rootCmd.Version = ctx.Build.String()
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, ctx); err != nil {
		logger.Global().Warn("failed to bind global flags", logger.Error(err))
	}

	rootCmd.AddCommand(
		batch.Command(ctx, m),
		folds.Command(ctx),
		scrape.Command(ctx, m),
		configcmd.Command(),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// config init must work without a valid config
		if cmd.Annotations[configcmd.SkipInitAnnotation] == "true" {
			return nil
		}
		return initialize(ctx)
	}

	return rootCmd
}

// initialize loads settings and sets up logging and telemetry before any
// subcommand runs.
func initialize(ctx *conf.Context) error {
	settings, err := conf.Load(ctx.ConfigFile)
	if err != nil {
		return err
	}
	if ctx.Build != nil {
		settings.Version = ctx.Build.GetVersion()
	}
	ctx.Settings = settings

	log, err := newLogger(&settings.Logging, settings.Debug)
	if err != nil {
		return err
	}
	logger.SetGlobal(log.With(logger.String("run_id", ctx.RunID)))

	if settings.ConfigFile != "" {
		logger.Global().Debug("configuration loaded", logger.String("file", settings.ConfigFile))
	}

	if err := telemetry.Init(settings, logger.Global().Module("telemetry")); err != nil {
		// error reporting is optional, keep going without it
		logger.Global().Warn("failed to initialize telemetry", logger.Error(err))
	}

	return nil
}

// newLogger builds the process logger from the logging settings.
func newLogger(settings *conf.LoggingSettings, debug bool) (logger.Logger, error) {
	level := logger.ParseLevel(settings.Level)
	if debug {
		level = logger.LogLevelDebug
	}

	tz, err := loadTimezone(settings.Timezone)
	if err != nil {
		return nil, err
	}

	if settings.File != "" {
		return logger.NewSlogLoggerWithFile(settings.File, level, tz)
	}
	return logger.NewTextLogger(os.Stderr, "sounds", level, tz), nil
}

func loadTimezone(name string) (*time.Location, error) {
	switch strings.ToLower(name) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid logging timezone %q: %w", name, err)
	}
	return tz, nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *conf.Context) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.ConfigFile, "config", "c", "", "Path to config.yaml (default: search the standard config paths)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("audio-dir", "", "UrbanSound8K audio directory holding fold1..fold10")
	flags.Int("test-fold", 0, "Fold held out for testing, 1-10 (0 picks one at random)")
	flags.Int("sample-rate", 0, "Sample rate audio is decoded at, in Hz")
	flags.Uint64("seed", 0, "Random seed for fold choice and shuffling (0 seeds from the clock)")
	flags.String("metrics-textfile", "", "Write prometheus metrics to this file on exit")

	return conf.BindFlags(flags, map[string]string{
		"debug":            "debug",
		"log-level":        "logging.level",
		"audio-dir":        "dataset.audiodir",
		"test-fold":        "dataset.testfold",
		"sample-rate":      "dataset.samplerate",
		"seed":             "dataset.seed",
		"metrics-textfile": "metrics.textfile",
	})
}
