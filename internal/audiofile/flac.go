package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/tphakala/flac"
)

func readFLAC(file afero.File, maxSeconds float64) (*pcm, error) {
	decoder, err := flac.NewDecoder(file)
	if err != nil {
		return nil, fmt.Errorf("invalid FLAC stream: %w", err)
	}

	bitDepth := decoder.BitsPerSample
	channels := decoder.NChannels
	sourceRate := decoder.SampleRate

	if channels < 1 {
		return nil, fmt.Errorf("unsupported number of channels: %d", channels)
	}
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("unsupported FLAC bit depth: %d", bitDepth)
	}

	divisor, err := getAudioDivisor(bitDepth)
	if err != nil {
		return nil, err
	}

	limit := frameLimit(maxSeconds, sourceRate)
	out := &pcm{sampleRate: sourceRate, bitDepth: bitDepth, channels: channels}

	bytesPerSample := bitDepth / 8
	frameSize := bytesPerSample * channels

	for limit < 0 || len(out.samples) < limit {
		frame, err := decoder.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("error reading FLAC frame: %w", err)
		}

		for i := 0; i+frameSize <= len(frame); i += frameSize {
			if limit >= 0 && len(out.samples) >= limit {
				break
			}
			var sum float32
			for c := 0; c < channels; c++ {
				sum += float32(decodeSample(frame[i+c*bytesPerSample:], bitDepth)) / divisor
			}
			out.samples = append(out.samples, sum/float32(channels))
		}
	}

	return out, nil
}

// decodeSample reads one little-endian signed sample of bitDepth bits
func decodeSample(b []byte, bitDepth int) int32 {
	switch bitDepth {
	case 16:
		return int32(int16(binary.LittleEndian.Uint16(b)))
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		// sign-extend from 24 bits
		return v << 8 >> 8
	case 32:
		return int32(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}
