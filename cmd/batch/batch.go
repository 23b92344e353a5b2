// Package batch implements the batch subcommand.
package batch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/observability"
	"github.com/StateFromJakeFarm/research/internal/urbansound"
)

// Command creates a new cobra.Command for pulling training batches.
func Command(ctx *conf.Context, m *observability.Metrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Pull training batches from the UrbanSound8K tree",
		Long: "Partitions the dataset folds, shuffles the training files and pulls " +
			"batch.count batches of batch.size samples, printing each batch's shape and labels.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), ctx.Settings, m)
		},
	}

	setupFlags(cmd)

	return cmd
}

// setupFlags defines flags specific to the batch command.
func setupFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntP("size", "n", 0, "Samples per batch")
	flags.Int("count", 0, "Number of batches to pull")
	flags.Float64("file-duration", 0, "Seconds of audio kept per file")
	flags.Float64("chunk-duration", 0, "Seconds of audio per chunk")
	flags.Duration("cache-ttl", 0, "Keep decoded waveforms for this long (0 disables the cache)")

	if err := conf.BindFlags(flags, map[string]string{
		"size":           "batch.size",
		"count":          "batch.count",
		"file-duration":  "dataset.fileduration",
		"chunk-duration": "dataset.chunkduration",
		"cache-ttl":      "dataset.cachettl",
	}); err != nil {
		logger.Global().Warn("failed to bind batch flags", logger.Error(err))
	}
}

func run(ctx context.Context, w io.Writer, settings *conf.Settings, m *observability.Metrics) error {
	log := logger.Global().Module("batch")

	cfg := urbansound.ConfigFromSettings(settings.Dataset)
	cfg.Logger = logger.Global().Module("urbansound")
	if m != nil {
		cfg.Metrics = m.Dataset
	}

	mgr, err := urbansound.NewManager(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "test fold: %d\n", mgr.TestFold())
	fmt.Fprintf(w, "training files: %d\n", len(mgr.TrainFiles()))
	fmt.Fprintf(w, "chunks per sample: %d x %d samples\n", mgr.ChunkCount(), mgr.ChunkLength())

	it := mgr.NewIterator()
	for i := range settings.Batch.Count {
		if err := ctx.Err(); err != nil {
			return err
		}

		b, err := it.Next(settings.Batch.Size)
		if err != nil {
			return err
		}

		n, chunks, length := b.Shape()
		fmt.Fprintf(w, "batch %d: offset %d shape (%d, %d, %d) labels [%s]\n",
			i+1, b.Offset, n, chunks, length, strings.Join(b.ClassNames(), " "))
		log.Debug("batch pulled",
			logger.Int("batch", i+1),
			logger.Int("offset", b.Offset),
			logger.Ints("labels", b.Labels))
	}

	return nil
}
