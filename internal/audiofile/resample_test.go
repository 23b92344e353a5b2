package audiofile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleAudioSameRateReturnsInput(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out, err := ResampleAudio(in, 8000, 8000)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResampleAudioLength(t *testing.T) {
	tests := []struct {
		name     string
		inLen    int
		from, to int
		wantLen  int
	}{
		{"downsample 2x", 1000, 16000, 8000, 500},
		{"upsample 2x", 1000, 8000, 16000, 2000},
		{"44.1k to 8k", 44100, 44100, 8000, 8000},
		{"tiny input", 2, 8000, 16000, 4},
		{"empty input", 0, 8000, 16000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ResampleAudio(make([]float32, tt.inLen), tt.from, tt.to)
			require.NoError(t, err)
			assert.Len(t, out, tt.wantLen)
		})
	}
}

func TestResampleAudioKeepsConstantSignal(t *testing.T) {
	in := make([]float32, 64)
	for i := range in {
		in[i] = 0.25
	}
	out, err := ResampleAudio(in, 22050, 8000)
	require.NoError(t, err)
	for i, v := range out {
		assert.InDelta(t, 0.25, v, 1e-5, "sample %d", i)
	}
}

func TestResampleAudioLinearFallback(t *testing.T) {
	out, err := ResampleAudio([]float32{0, 1}, 1, 2)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.InDeltaSlice(t, []float32{0, 0.5, 1, 1}, out, 1e-6)
}

func TestResampleAudioInvalidRate(t *testing.T) {
	_, err := ResampleAudio([]float32{1}, 0, 8000)
	assert.Error(t, err)
}
