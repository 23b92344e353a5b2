package scraper

import (
	"slices"

	"github.com/StateFromJakeFarm/research/internal/conf"
)

// ConfigFromSettings maps scraper settings onto a Config.
func ConfigFromSettings(s conf.ScraperSettings) Config {
	return Config{
		StartURLs:       slices.Clone(s.StartURLs),
		AllowedDomains:  slices.Clone(s.AllowedDomains),
		Extensions:      slices.Clone(s.Extensions),
		BaseURLSuffixes: slices.Clone(s.BaseURLSuffixes),
		MaxDepth:        s.MaxDepth,
		UserAgent:       s.UserAgent,
		RequestTimeout:  s.Timeout,
	}
}
