// Package urbansound turns an UrbanSound8K audio tree into fixed-shape training
// batches. One fold is held out for testing; the files of the other nine are
// shuffled once and served in order, each cut into equal chunks.
package urbansound

import (
	"math/rand/v2"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/afero"

	"github.com/StateFromJakeFarm/research/internal/audiofile"
	"github.com/StateFromJakeFarm/research/internal/errors"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/observability/metrics"
)

// Defaults applied to zero-valued Config fields
const (
	DefaultSampleRate    = 8000
	DefaultFileDuration  = 4.0
	DefaultChunkDuration = 0.1
)

// Decoder loads an audio file as mono samples at sampleRate, reading at most
// maxSeconds of audio.
type Decoder interface {
	Decode(path string, sampleRate int, maxSeconds float64) ([]float32, error)
}

// Config configures a Manager. Only AudioDir is required.
type Config struct {
	AudioDir      string  // directory holding fold1..fold10
	TestFold      *int    // held-out fold, nil draws one at random
	SampleRate    int     // Hz, 0 means DefaultSampleRate
	FileDuration  float64 // seconds per file, 0 means DefaultFileDuration
	ChunkDuration float64 // seconds per chunk, 0 means DefaultChunkDuration

	Rand        *rand.Rand  // fold choice and shuffle; nil seeds from the clock
	LabelParser LabelParser // nil means DefaultLabelParser
	Decoder     Decoder     // nil means audiofile.Decoder on Fs
	Fs          afero.Fs    // nil means the OS filesystem
	Cache       *WaveformCache
	Logger      logger.Logger
	Metrics     *metrics.DatasetMetrics
}

// Manager owns the fold partition and the shuffled training list. The list is
// fixed after construction. A Manager is not safe for concurrent use.
type Manager struct {
	audioDir   string
	fs         afero.Fs
	testFold   int
	trainFolds []int
	trainFiles []string

	sampleRate   int
	fileDuration float64
	chunkCount   int
	chunkLength  int
	totalSamples int

	labels  LabelParser
	decoder Decoder
	cache   *WaveformCache
	metrics *metrics.DatasetMetrics
	log     logger.Logger

	iter *BatchIterator
}

// NewManager partitions the folds and builds the shuffled training list.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AudioDir == "" {
		return nil, configError("audio directory is required")
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.FileDuration == 0 {
		cfg.FileDuration = DefaultFileDuration
	}
	if cfg.ChunkDuration == 0 {
		cfg.ChunkDuration = DefaultChunkDuration
	}
	if cfg.SampleRate < 0 {
		return nil, configError("sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.FileDuration < 0 {
		return nil, configError("file duration must be positive, got %g", cfg.FileDuration)
	}
	if cfg.ChunkDuration < 0 || cfg.ChunkDuration > cfg.FileDuration {
		return nil, configError("chunk duration must be in (0, %g], got %g", cfg.FileDuration, cfg.ChunkDuration)
	}

	m := &Manager{
		audioDir:     cfg.AudioDir,
		fs:           cfg.Fs,
		sampleRate:   cfg.SampleRate,
		fileDuration: cfg.FileDuration,
		chunkCount:   int(cfg.FileDuration / cfg.ChunkDuration),
		chunkLength:  int(cfg.ChunkDuration * float64(cfg.SampleRate)),
		totalSamples: int(float64(cfg.SampleRate) * cfg.FileDuration),
		labels:       cfg.LabelParser,
		decoder:      cfg.Decoder,
		cache:        cfg.Cache,
		metrics:      cfg.Metrics,
		log:          cfg.Logger,
	}
	if m.chunkCount < 1 || m.chunkLength < 1 {
		return nil, configError("chunking yields %d chunks of %d samples", m.chunkCount, m.chunkLength)
	}

	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}
	if m.log == nil {
		m.log = logger.Global().Module("urbansound")
	}
	if m.labels == nil {
		m.labels = DefaultLabelParser
	}
	if m.decoder == nil {
		m.decoder = audiofile.NewDecoder(m.fs, m.log)
	}

	rng := cfg.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	var err error
	m.testFold, m.trainFolds, err = partitionFolds(cfg.TestFold, rng)
	if err != nil {
		return nil, err
	}

	m.trainFiles, err = buildIndex(m.fs, m.audioDir, m.trainFolds, rng)
	if err != nil {
		return nil, err
	}

	m.iter = m.NewIterator()

	if m.metrics != nil {
		m.metrics.RecordIndex(m.testFold, len(m.trainFiles))
	}
	m.log.Info("training index built",
		logger.String("audio_dir", m.audioDir),
		logger.Int("test_fold", m.testFold),
		logger.Int("train_files", len(m.trainFiles)),
		logger.Int("chunk_count", m.chunkCount),
		logger.Int("chunk_length", m.chunkLength))

	return m, nil
}

// TestFold returns the held-out fold number.
func (m *Manager) TestFold() int { return m.testFold }

// TrainFolds returns the nine training folds in ascending order.
func (m *Manager) TrainFolds() []int { return slices.Clone(m.trainFolds) }

// TrainFiles returns a copy of the shuffled training list.
func (m *Manager) TrainFiles() []string { return slices.Clone(m.trainFiles) }

// TestFiles lists the held-out fold in name order.
func (m *Manager) TestFiles() ([]string, error) {
	files, err := listFold(m.fs, m.audioDir, m.testFold)
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ChunkCount returns the number of chunks per sample.
func (m *Manager) ChunkCount() int { return m.chunkCount }

// ChunkLength returns the number of samples per chunk.
func (m *Manager) ChunkLength() int { return m.chunkLength }

// TotalSamples returns the number of samples each file is padded or cut to.
func (m *Manager) TotalSamples() int { return m.totalSamples }

// GetBatch returns the next n training samples using the manager's own cursor.
func (m *Manager) GetBatch(n int) (*Batch, error) {
	return m.iter.Next(n)
}

// NewIterator returns an independent cursor over the training list, starting at 0.
func (m *Manager) NewIterator() *BatchIterator {
	return &BatchIterator{m: m}
}

// loadSample parses the label of path and returns its chunked waveform.
func (m *Manager) loadSample(path string) (int, [][]float32, error) {
	label, err := m.labels.ParseLabel(path)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordDecodeError("label")
		}
		if !errors.Is(err, ErrInvalidLabel) {
			err = errors.Newf("%w: %w", ErrInvalidLabel, err).
				Component("urbansound").
				Category(errors.CategoryFileParsing).
				Context("file_name", filepath.Base(path)).
				Build()
		}
		return 0, nil, err
	}

	samples, err := m.waveform(path)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordDecodeError("decode")
		}
		return 0, nil, errors.Newf("%w: %w", ErrDecode, err).
			Component("urbansound").
			Category(errors.CategoryAudio).
			Context("file_name", filepath.Base(path)).
			Build()
	}

	chunks, padded := chunkSamples(samples, m.chunkCount, m.chunkLength, m.totalSamples)
	if padded && m.metrics != nil {
		m.metrics.RecordPadding()
	}
	return label, chunks, nil
}

// waveform decodes path, consulting the cache when one is configured.
func (m *Manager) waveform(path string) ([]float32, error) {
	var key string
	if m.cache != nil {
		key = waveformKey(path, m.sampleRate, m.fileDuration)
		samples, ok := m.cache.get(key)
		if m.metrics != nil {
			m.metrics.RecordCacheLookup(ok)
		}
		if ok {
			return samples, nil
		}
	}

	start := time.Now()
	samples, err := m.decoder.Decode(path, m.sampleRate, m.fileDuration)
	if err != nil {
		return nil, err
	}
	if m.metrics != nil {
		m.metrics.RecordDecodeDuration(time.Since(start).Seconds())
	}

	if m.cache != nil {
		m.cache.set(key, samples)
	}
	return samples, nil
}
