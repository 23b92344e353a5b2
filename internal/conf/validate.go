// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateLoggingSettings(&settings.Logging); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDatasetSettings(&settings.Dataset); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateBatchSettings(&settings.Batch); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateScraperSettings(&settings.Scraper); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Sentry.Enabled && settings.Sentry.DSN == "" {
		ve.Errors = append(ve.Errors, "sentry.dsn is required when sentry is enabled")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateLoggingSettings(settings *LoggingSettings) error {
	switch settings.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", settings.Level)
	}

	switch settings.Timezone {
	case "", "Local", "UTC":
	default:
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("logging.timezone %q is not a valid timezone: %w", settings.Timezone, err)
		}
	}

	return nil
}

// validateDatasetSettings checks dataset ranges; the audio directory itself is
// checked by the commands that need it.
func validateDatasetSettings(settings *DatasetSettings) error {
	var errs []string

	if settings.TestFold < 0 || settings.TestFold > 10 {
		errs = append(errs, fmt.Sprintf("dataset.testfold must be in range [1, 10] or 0 for random, got %d", settings.TestFold))
	}

	if settings.SampleRate <= 0 {
		errs = append(errs, fmt.Sprintf("dataset.samplerate must be positive, got %d", settings.SampleRate))
	}

	if settings.FileDuration <= 0 {
		errs = append(errs, fmt.Sprintf("dataset.fileduration must be positive, got %g", settings.FileDuration))
	}

	if settings.ChunkDuration <= 0 || settings.ChunkDuration > settings.FileDuration {
		errs = append(errs, fmt.Sprintf("dataset.chunkduration must be in (0, fileduration], got %g", settings.ChunkDuration))
	}

	if settings.CacheTTL < 0 {
		errs = append(errs, "dataset.cachettl must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("dataset settings errors: %v", errs)
	}
	return nil
}

func validateBatchSettings(settings *BatchSettings) error {
	if settings.Size <= 0 {
		return fmt.Errorf("batch.size must be positive, got %d", settings.Size)
	}
	if settings.Count <= 0 {
		return fmt.Errorf("batch.count must be positive, got %d", settings.Count)
	}
	return nil
}

func validateScraperSettings(settings *ScraperSettings) error {
	var errs []string

	if len(settings.Extensions) == 0 {
		errs = append(errs, "scraper.extensions must list at least one audio file type")
	}

	for _, raw := range settings.StartURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("scraper.starturls entry %q is not an absolute http(s) URL", raw))
		}
	}

	for _, domain := range settings.AllowedDomains {
		if domain == "" || strings.ContainsAny(domain, "/:") {
			errs = append(errs, fmt.Sprintf("scraper.alloweddomains entry %q must be a bare host name", domain))
		}
	}

	if settings.MaxDepth < 1 {
		errs = append(errs, fmt.Sprintf("scraper.maxdepth must be at least 1, got %d", settings.MaxDepth))
	}

	if len(errs) > 0 {
		return fmt.Errorf("scraper settings errors: %v", errs)
	}
	return nil
}
