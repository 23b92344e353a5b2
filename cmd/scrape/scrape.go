// Package scrape implements the scrape subcommand.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/httpclient"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/observability"
	"github.com/StateFromJakeFarm/research/internal/scraper"
)

// Command creates a new cobra.Command for the sound file scraper.
func Command(ctx *conf.Context, m *observability.Metrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape web pages for links to sound files",
		Long: "Visits the configured start pages and prints every link to a file with " +
			"one of the configured extensions.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), ctx.Settings, m)
		},
	}

	setupFlags(cmd)

	return cmd
}

// setupFlags defines flags specific to the scrape command.
func setupFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSlice("start-url", nil, "Page to start from, repeatable (replaces the configured list)")
	flags.StringSlice("extension", nil, "Sound file extension to match, repeatable")
	flags.Int("max-depth", 0, "Link depth to follow, 1 visits only the start pages")
	flags.String("user-agent", "", "User-Agent header sent with every request")

	if err := conf.BindFlags(flags, map[string]string{
		"start-url":  "scraper.starturls",
		"extension":  "scraper.extensions",
		"max-depth":  "scraper.maxdepth",
		"user-agent": "scraper.useragent",
	}); err != nil {
		logger.Global().Warn("failed to bind scrape flags", logger.Error(err))
	}
}

func run(ctx context.Context, w io.Writer, settings *conf.Settings, m *observability.Metrics, opts ...scraper.Option) error {
	log := logger.Global().Module("scraper")

	transport := httpclient.New(nil)
	defer transport.CloseIdleConnections()
	transport.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		fields := []logger.Field{
			logger.String("url", req.URL.String()),
			logger.Duration("elapsed", elapsed),
		}
		if resp != nil {
			fields = append(fields, logger.Int("status", resp.StatusCode))
		}
		if err != nil {
			fields = append(fields, logger.Error(err))
		}
		log.Trace("http round trip", fields...)
	})

	opts = append([]scraper.Option{
		scraper.WithLogger(log),
		scraper.WithTransport(transport),
		scraper.WithFoundHandler(func(f scraper.Found) {
			fmt.Fprintln(w, f.URL)
		}),
	}, opts...)
	if m != nil {
		opts = append(opts, scraper.WithMetrics(m.Scraper))
	}

	spider, err := scraper.NewSpider(scraper.ConfigFromSettings(settings.Scraper), opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	found, err := spider.Run(ctx)
	log.Info("scrape finished",
		logger.Int("sound_files", len(found)),
		logger.Int("start_urls", len(settings.Scraper.StartURLs)),
		logger.Duration("elapsed", time.Since(start)))

	return err
}
