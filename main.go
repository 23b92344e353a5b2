package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/StateFromJakeFarm/research/cmd"
	"github.com/StateFromJakeFarm/research/internal/buildinfo"
	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/observability"
	"github.com/StateFromJakeFarm/research/internal/telemetry"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   = "dev"
	buildDate = ""
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := conf.NewContext(uuid.NewString())
	appCtx.Build = &buildinfo.Context{Version: version, BuildDate: buildDate}

	metrics, err := observability.NewMetrics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing metrics: %v\n", err)
		return 1
	}

	rootCmd := cmd.RootCommand(appCtx, metrics)
	runErr := rootCmd.ExecuteContext(ctx)

	if err := metrics.WriteTextfile(appCtx.Settings.Metrics.Textfile); err != nil {
		logger.Global().Warn("failed to write metrics textfile",
			logger.String("path", appCtx.Settings.Metrics.Textfile),
			logger.Error(err))
	}

	telemetry.Flush(2 * time.Second)
	if err := logger.Global().Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error flushing logs: %v\n", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	return 0
}
