package urbansound

import (
	"math/rand/v2"
	"strconv"
)

// Fold numbering of the UrbanSound8K distribution
const (
	MinFold    = 1
	MaxFold    = 10
	numFolds   = MaxFold - MinFold + 1
	foldPrefix = "fold"
)

// Fold returns a pointer to n, for Config.TestFold.
func Fold(n int) *int {
	return &n
}

// foldDirName returns the directory name of fold n
func foldDirName(n int) string {
	return foldPrefix + strconv.Itoa(n)
}

// partitionFolds picks the held-out test fold and returns the remaining folds
// in ascending order. A nil request draws the fold uniformly from rng.
func partitionFolds(requested *int, rng *rand.Rand) (int, []int, error) {
	var testFold int
	if requested == nil {
		testFold = MinFold + rng.IntN(numFolds)
	} else {
		testFold = *requested
		if testFold < MinFold || testFold > MaxFold {
			return 0, nil, configError("test fold must be in range [%d, %d], got %d", MinFold, MaxFold, testFold)
		}
	}

	trainFolds := make([]int, 0, numFolds-1)
	for fold := MinFold; fold <= MaxFold; fold++ {
		if fold != testFold {
			trainFolds = append(trainFolds, fold)
		}
	}

	return testFold, trainFolds, nil
}
