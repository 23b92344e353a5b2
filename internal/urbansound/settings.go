package urbansound

import (
	"math/rand/v2"

	"github.com/StateFromJakeFarm/research/internal/conf"
)

// ConfigFromSettings maps dataset settings onto a Config. A test fold of 0 and a
// seed of 0 mean random, and a zero cache TTL leaves caching off. Decoder,
// filesystem, logger and metrics are left for the caller.
func ConfigFromSettings(s conf.DatasetSettings) Config {
	cfg := Config{
		AudioDir:      s.AudioDir,
		SampleRate:    s.SampleRate,
		FileDuration:  s.FileDuration,
		ChunkDuration: s.ChunkDuration,
	}
	if s.TestFold != 0 {
		cfg.TestFold = Fold(s.TestFold)
	}
	if s.Seed != 0 {
		cfg.Rand = rand.New(rand.NewPCG(s.Seed, s.Seed))
	}
	if s.CacheTTL > 0 {
		cfg.Cache = NewWaveformCache(s.CacheTTL)
	}
	return cfg
}
