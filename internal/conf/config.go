// config.go: settings struct for the sounds tool and functions to load and save it.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoggingSettings controls the console/file logger.
type LoggingSettings struct {
	Level    string `yaml:"level"`    // trace, debug, info, warn, error
	File     string `yaml:"file"`     // optional JSON log file, empty for console only
	Timezone string `yaml:"timezone"` // "Local", "UTC" or IANA name
}

// DatasetSettings describes the UrbanSound8K tree and how clips are cut.
type DatasetSettings struct {
	AudioDir      string        `yaml:"audiodir"`      // root holding fold1..fold10
	TestFold      int           `yaml:"testfold"`      // held-out fold, 0 picks one at random
	SampleRate    int           `yaml:"samplerate"`    // decode sample rate in Hz
	FileDuration  float64       `yaml:"fileduration"`  // seconds kept per file
	ChunkDuration float64       `yaml:"chunkduration"` // seconds per chunk
	Seed          uint64        `yaml:"seed"`          // random seed, 0 seeds from the clock
	CacheTTL      time.Duration `yaml:"cachettl"`      // decoded waveform cache lifetime, 0 disables
}

// BatchSettings controls the batch command.
type BatchSettings struct {
	Size  int `yaml:"size"`  // samples per batch
	Count int `yaml:"count"` // batches to pull per run
}

// ScraperSettings configures the sound-file scraper.
type ScraperSettings struct {
	StartURLs       []string      `yaml:"starturls"`
	AllowedDomains  []string      `yaml:"alloweddomains"`
	Extensions      []string      `yaml:"extensions"`
	BaseURLSuffixes []string      `yaml:"baseurlsuffixes"`
	MaxDepth        int           `yaml:"maxdepth"` // 1 visits only the start URLs
	UserAgent       string        `yaml:"useragent"`
	Timeout         time.Duration `yaml:"timeout"`
}

// MetricsSettings controls prometheus textfile export.
type MetricsSettings struct {
	Textfile string `yaml:"textfile"` // node-exporter textfile path, empty disables
}

// SentrySettings controls optional error reporting.
type SentrySettings struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
	Debug   bool   `yaml:"debug"`
}

// Settings contains all configuration options.
type Settings struct {
	Debug   bool            `yaml:"debug"`
	Logging LoggingSettings `yaml:"logging"`
	Dataset DatasetSettings `yaml:"dataset"`
	Batch   BatchSettings   `yaml:"batch"`
	Scraper ScraperSettings `yaml:"scraper"`
	Metrics MetricsSettings `yaml:"metrics"`
	Sentry  SentrySettings  `yaml:"sentry"`

	Version    string `yaml:"-"` // build version, runtime value
	ConfigFile string `yaml:"-"` // config file actually read, runtime value
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file, environment variables and bound flags into Settings.
// An empty configFile searches the default config paths; a missing file is not an error.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}
	settings.ConfigFile = viper.ConfigFileUsed()

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := bindEnvVars(); err != nil {
		return err
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("fatal error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// defaults, env and flags still apply
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// DefaultSettings returns the settings produced by the built-in defaults alone.
func DefaultSettings() *Settings {
	v := viper.New()
	applyDefaults(v)

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		// defaults are static, a failure here is a programming error
		panic(fmt.Sprintf("conf: invalid built-in defaults: %v", err))
	}
	return settings
}

// SaveYAMLConfig writes settings to configPath.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	// temp file + rename keeps the write atomic
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}
