// Package testutil provides shared test fixtures for the sounds packages.
package testutil

import (
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/StateFromJakeFarm/research/internal/logger"
)

// QuietLogger returns a logger that discards everything below error level.
func QuietLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

// WriteWAV writes a PCM WAV file holding data to path on fs.
func WriteWAV(t *testing.T, fs afero.Fs, path string, sampleRate, bitDepth, channels int, data []int) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	f, err := fs.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

// WriteDatasetTree creates fold1..fold10 under root with perFold 16-bit mono
// WAV files each, named <id>-<class>-0-<n>.wav. Classes cycle through 0..9 and
// every file holds frames samples at sampleRate. It returns the paths by fold.
func WriteDatasetTree(t *testing.T, fs afero.Fs, root string, perFold, sampleRate, frames int) map[int][]string {
	t.Helper()

	byFold := make(map[int][]string)
	id := 0
	for fold := 1; fold <= 10; fold++ {
		for n := range perFold {
			name := fmt.Sprintf("%d-%d-0-%d.wav", 1000+id, id%10, n)
			path := filepath.Join(root, fmt.Sprintf("fold%d", fold), name)
			data := make([]int, frames)
			for i := range data {
				data[i] = (id + 1) * 100
			}
			WriteWAV(t, fs, path, sampleRate, 16, 1, data)
			byFold[fold] = append(byFold[fold], path)
			id++
		}
	}
	return byFold
}
