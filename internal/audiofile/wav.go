package audiofile

import (
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"github.com/StateFromJakeFarm/research/internal/errors"
)

// wavReadFrames is the number of frames pulled from the decoder per PCMBuffer call
const wavReadFrames = 8192

func readWAV(file afero.File, maxSeconds float64) (*pcm, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, errors.NewStd("input is not a valid WAV audio file")
	}

	bitDepth := int(decoder.BitDepth)
	channels := int(decoder.NumChans)
	sourceRate := int(decoder.SampleRate)

	if channels < 1 {
		return nil, fmt.Errorf("unsupported number of channels: %d", channels)
	}
	if sourceRate <= 0 {
		return nil, fmt.Errorf("invalid WAV sample rate: %d", sourceRate)
	}

	divisor, err := getAudioDivisor(bitDepth)
	if err != nil {
		return nil, err
	}
	// 8-bit WAV is unsigned, centred on 128
	var offset int
	if bitDepth == 8 {
		offset = 128
	}

	limit := frameLimit(maxSeconds, sourceRate)
	out := &pcm{sampleRate: sourceRate, bitDepth: bitDepth, channels: channels}
	if limit > 0 {
		out.samples = make([]float32, 0, limit)
	}

	buf := &audio.IntBuffer{
		Data:   make([]int, wavReadFrames*channels),
		Format: &audio.Format{SampleRate: sourceRate, NumChannels: channels},
	}

	for limit < 0 || len(out.samples) < limit {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("error reading WAV samples: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / channels
		for f := 0; f < frames; f++ {
			if limit >= 0 && len(out.samples) >= limit {
				break
			}
			var sum float32
			for c := 0; c < channels; c++ {
				sum += float32(buf.Data[f*channels+c]-offset) / divisor
			}
			out.samples = append(out.samples, sum/float32(channels))
		}
	}

	return out, nil
}
