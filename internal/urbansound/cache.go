package urbansound

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// WaveformCache keeps decoded waveforms so repeated passes over the training
// list skip decoding. Cached slices are never handed out; batches copy from them.
type WaveformCache struct {
	store *cache.Cache
}

// NewWaveformCache returns a cache whose entries expire after ttl.
func NewWaveformCache(ttl time.Duration) *WaveformCache {
	return &WaveformCache{store: cache.New(ttl, 2*ttl)}
}

func waveformKey(path string, sampleRate int, seconds float64) string {
	return fmt.Sprintf("%s|%d|%g", path, sampleRate, seconds)
}

func (w *WaveformCache) get(key string) ([]float32, bool) {
	v, ok := w.store.Get(key)
	if !ok {
		return nil, false
	}
	samples, ok := v.([]float32)
	return samples, ok
}

func (w *WaveformCache) set(key string, samples []float32) {
	w.store.SetDefault(key, samples)
}

// Len returns the number of cached waveforms, including expired ones not yet evicted.
func (w *WaveformCache) Len() int {
	return w.store.ItemCount()
}

// Flush drops every cached waveform.
func (w *WaveformCache) Flush() {
	w.store.Flush()
}
