package folds

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/testutil"
)

// row returns the last two fields of the table line starting with name.
func row(t *testing.T, out, name string) []string {
	t.Helper()
	for line := range strings.SplitSeq(out, "\n") {
		if strings.HasPrefix(line, name+" ") {
			fields := strings.Fields(line)
			return fields[len(fields)-2:]
		}
	}
	require.Failf(t, "row not found", "no %q row in:\n%s", name, out)
	return nil
}

func TestRunPrintsPartition(t *testing.T) {
	logger.SetGlobal(testutil.QuietLogger())

	root := t.TempDir()
	// 2 files per fold, ids 0..19, class = id % 10
	testutil.WriteDatasetTree(t, afero.NewOsFs(), root, 2, 10, 10)

	settings := conf.DefaultSettings()
	settings.Dataset.AudioDir = root
	settings.Dataset.TestFold = 3
	settings.Dataset.Seed = 1

	var out bytes.Buffer
	require.NoError(t, run(&out, settings))
	got := out.String()

	assert.Contains(t, got, "test fold:   3\n")
	assert.Contains(t, got, "train folds: 1, 2, 4, 5, 6, 7, 8, 9, 10\n")

	// fold3 holds ids 4 and 5
	assert.Equal(t, []string{"2", "0"}, row(t, got, "Air Conditioner"))
	assert.Equal(t, []string{"1", "1"}, row(t, got, "Drilling"))
	assert.Equal(t, []string{"1", "1"}, row(t, got, "Engine Idling"))
	assert.Equal(t, []string{"2", "0"}, row(t, got, "Street Music"))
	assert.Equal(t, []string{"18", "2"}, row(t, got, "Total"))
}

func TestRunInvalidFold(t *testing.T) {
	logger.SetGlobal(testutil.QuietLogger())

	settings := conf.DefaultSettings()
	settings.Dataset.AudioDir = t.TempDir()
	settings.Dataset.TestFold = 11

	require.Error(t, run(&bytes.Buffer{}, settings))
}
