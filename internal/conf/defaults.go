// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Dataset defaults match the UrbanSound8K classifier setup.
const (
	DefaultSampleRate    = 8000
	DefaultFileDuration  = 4.0
	DefaultChunkDuration = 0.1
	DefaultBatchSize     = 10
)

// Sets default values for the configuration.
func setDefaultConfig() {
	applyDefaults(viper.GetViper())
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.timezone", "Local")

	v.SetDefault("dataset.audiodir", "")
	v.SetDefault("dataset.testfold", 0)
	v.SetDefault("dataset.samplerate", DefaultSampleRate)
	v.SetDefault("dataset.fileduration", DefaultFileDuration)
	v.SetDefault("dataset.chunkduration", DefaultChunkDuration)
	v.SetDefault("dataset.seed", 0)
	v.SetDefault("dataset.cachettl", time.Duration(0))

	v.SetDefault("batch.size", DefaultBatchSize)
	v.SetDefault("batch.count", 1)

	v.SetDefault("scraper.starturls", []string{
		"http://soundbible.com/tags-chain.html",
		"http://www.freesfx.co.uk/sfx/saw",
		"http://www.soundsboom.com/saw",
	})
	v.SetDefault("scraper.alloweddomains", []string{"soundbible.com", "freesfx.co.uk"})
	v.SetDefault("scraper.extensions", []string{"mp3", "wav"})
	v.SetDefault("scraper.baseurlsuffixes", []string{".com", ".org", ".gov", ".co.uk", ".edu"})
	v.SetDefault("scraper.maxdepth", 1)
	v.SetDefault("scraper.useragent", "")
	v.SetDefault("scraper.timeout", 30*time.Second)

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.debug", false)
}
