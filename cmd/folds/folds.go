// Package folds implements the folds subcommand.
package folds

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/urbansound"
)

// Command creates the folds command, which reports the fold partition.
func Command(ctx *conf.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folds",
		Short: "Print the train/test fold partition and per-class file counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), ctx.Settings)
		},
	}

	return cmd
}

// summary counts the training and test files of a partition per class.
type summary struct {
	testFold   int
	trainFolds []int
	train      [urbansound.NumClasses]int
	test       [urbansound.NumClasses]int
	skipped    int
}

func run(w io.Writer, settings *conf.Settings) error {
	cfg := urbansound.ConfigFromSettings(settings.Dataset)
	cfg.Logger = logger.Global().Module("urbansound")

	mgr, err := urbansound.NewManager(cfg)
	if err != nil {
		return err
	}

	testFiles, err := mgr.TestFiles()
	if err != nil {
		return err
	}

	s := summary{testFold: mgr.TestFold(), trainFolds: mgr.TrainFolds()}
	s.skipped += countClasses(mgr.TrainFiles(), &s.train)
	s.skipped += countClasses(testFiles, &s.test)
	if s.skipped > 0 {
		logger.Global().Module("folds").Warn("files without a valid class label",
			logger.Int("count", s.skipped))
	}

	return s.print(w)
}

// countClasses adds the class of every file to counts and returns how many
// files had no valid label.
func countClasses(files []string, counts *[urbansound.NumClasses]int) int {
	skipped := 0
	for _, f := range files {
		label, err := urbansound.DefaultLabelParser.ParseLabel(f)
		if err != nil {
			skipped++
			continue
		}
		counts[label]++
	}
	return skipped
}

func (s *summary) print(w io.Writer) error {
	folds := make([]string, len(s.trainFolds))
	for i, f := range s.trainFolds {
		folds[i] = fmt.Sprint(f)
	}
	fmt.Fprintf(w, "test fold:   %d\n", s.testFold)
	fmt.Fprintf(w, "train folds: %s\n\n", strings.Join(folds, ", "))

	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Class\tTrain\tTest\t")

	var train, test int
	for label, name := range urbansound.Classes() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t\n", title.String(strings.ReplaceAll(name, "_", " ")), s.train[label], s.test[label])
		train += s.train[label]
		test += s.test[label]
	}
	fmt.Fprintf(tw, "Total\t%d\t%d\t\n", train, test)

	return tw.Flush()
}
