package urbansound

import (
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/StateFromJakeFarm/research/internal/logger"
)

const testRoot = "/data/UrbanSound8K/audio"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

// fakeDecoder returns a waveform per path: every sample is the path's id,
// and the length comes from lengths or defaults to a full file.
type fakeDecoder struct {
	mu      sync.Mutex
	ids     map[string]float32
	lengths map[string]int
	fail    map[string]error
	calls   map[string]int
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{
		ids:     make(map[string]float32),
		lengths: make(map[string]int),
		fail:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (d *fakeDecoder) Decode(path string, sampleRate int, maxSeconds float64) ([]float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls[path]++
	if err := d.fail[path]; err != nil {
		return nil, err
	}

	n, ok := d.lengths[path]
	if !ok {
		n = int(float64(sampleRate) * maxSeconds)
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = d.ids[path]
	}
	return out, nil
}

func (d *fakeDecoder) callCount(path string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[path]
}

// buildTree creates perFold files in each of the ten folds and registers a
// distinct id for every file with dec. Labels cycle through the class table.
func buildTree(t *testing.T, fs afero.Fs, perFold int, dec *fakeDecoder) map[int][]string {
	t.Helper()

	byFold := make(map[int][]string)
	id := 0
	for fold := MinFold; fold <= MaxFold; fold++ {
		dir := filepath.Join(testRoot, foldDirName(fold))
		require.NoError(t, fs.MkdirAll(dir, 0o755))
		for i := 0; i < perFold; i++ {
			id++
			name := fmt.Sprintf("%d-%d-0-%d.wav", 1000+id, id%NumClasses, i)
			path := filepath.Join(dir, name)
			require.NoError(t, afero.WriteFile(fs, path, []byte("RIFF"), 0o644))
			byFold[fold] = append(byFold[fold], path)
			if dec != nil {
				dec.ids[path] = float32(id)
			}
		}
	}
	return byFold
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func quietLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

// testConfig returns a small config: 10 Hz, 1 s files, 0.5 s chunks
func testConfig(fs afero.Fs, dec Decoder, fold *int) Config {
	return Config{
		AudioDir:      testRoot,
		TestFold:      fold,
		SampleRate:    10,
		FileDuration:  1,
		ChunkDuration: 0.5,
		Rand:          seeded(42),
		Decoder:       dec,
		Fs:            fs,
		Logger:        quietLogger(),
	}
}
