package urbansound

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/StateFromJakeFarm/research/internal/errors"
)

// listFold returns the regular, non-hidden files of one fold directory in name order.
func listFold(fs afero.Fs, root string, fold int) ([]string, error) {
	dir := filepath.Join(root, foldDirName(fold))

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		category := errors.CategoryFileIO
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
			err = fmt.Errorf("%w: %w", ErrDirectoryNotFound, err)
		}
		return nil, errors.New(err).
			Component("urbansound").
			Category(category).
			Context("fold", fold).
			Context("operation", "list-fold").
			Build()
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// buildIndex lists every training fold in ascending order and shuffles the result once.
func buildIndex(fs afero.Fs, root string, trainFolds []int, rng *rand.Rand) ([]string, error) {
	var files []string
	for _, fold := range trainFolds {
		foldFiles, err := listFold(fs, root, fold)
		if err != nil {
			return nil, err
		}
		files = append(files, foldFiles...)
	}

	rng.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})

	return files, nil
}
