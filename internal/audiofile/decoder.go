// Package audiofile decodes WAV and FLAC files into mono float32 samples at a
// requested sample rate.
package audiofile

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/StateFromJakeFarm/research/internal/errors"
	"github.com/StateFromJakeFarm/research/internal/logger"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder
var ErrUnsupportedFormat = errors.NewStd("unsupported audio format")

// pcm holds mono samples at the rate they were stored in
type pcm struct {
	samples    []float32
	sampleRate int
	bitDepth   int
	channels   int
}

// Decoder reads audio files from a filesystem
type Decoder struct {
	fs  afero.Fs
	log logger.Logger
}

// NewDecoder returns a Decoder reading from fs. A nil fs reads the OS filesystem
// and a nil log uses the global logger.
func NewDecoder(fs afero.Fs, log logger.Logger) *Decoder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Global().Module("audiofile")
	}
	return &Decoder{fs: fs, log: log}
}

// Decode reads at most maxSeconds of audio from path, down-mixes it to mono and
// resamples it to sampleRate. The result holds at most trunc(maxSeconds*sampleRate)
// samples; shorter files yield fewer. maxSeconds <= 0 reads the whole file.
func (d *Decoder) Decode(path string, sampleRate int, maxSeconds float64) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, errors.Newf("invalid target sample rate %d", sampleRate).
			Category(errors.CategoryValidation).
			Build()
	}

	ext := strings.ToLower(filepath.Ext(path))

	var read func(afero.File, float64) (*pcm, error)
	switch ext {
	case ".wav":
		read = readWAV
	case ".flac":
		read = readFLAC
	default:
		return nil, errors.Newf("%w: %q", ErrUnsupportedFormat, ext).
			Category(errors.CategoryAudio).
			FileContext(path, 0).
			Build()
	}

	file, err := d.fs.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "open").
			Build()
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			d.log.Warn("failed to close audio file", logger.String("path", path), logger.Error(cerr))
		}
	}()

	data, err := read(file, maxSeconds)
	if err != nil {
		var size int64
		if info, serr := file.Stat(); serr == nil {
			size = info.Size()
		}
		return nil, errors.New(err).
			Category(errors.CategoryAudio).
			FileContext(path, size).
			Context("operation", "decode").
			Build()
	}

	d.log.Trace("decoded audio file",
		logger.String("path", path),
		logger.Int("source_rate", data.sampleRate),
		logger.Int("bit_depth", data.bitDepth),
		logger.Int("channels", data.channels),
		logger.Int("frames", len(data.samples)))

	samples, err := ResampleAudio(data.samples, data.sampleRate, sampleRate)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryAudio).
			FileContext(path, 0).
			Context("operation", "resample").
			Build()
	}

	if maxSeconds > 0 {
		if limit := int(maxSeconds * float64(sampleRate)); len(samples) > limit {
			samples = samples[:limit]
		}
	}

	return samples, nil
}

// frameLimit is the number of source frames needed to cover maxSeconds, or -1 for no limit
func frameLimit(maxSeconds float64, sourceRate int) int {
	if maxSeconds <= 0 {
		return -1
	}
	return int(math.Ceil(maxSeconds * float64(sourceRate)))
}

// getAudioDivisor returns the value that maps signed PCM of bitDepth into [-1, 1)
func getAudioDivisor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 8:
		return 128.0, nil
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, errors.Newf("unsupported audio bit depth: %d", bitDepth).
			Category(errors.CategoryAudio).
			Build()
	}
}
