// Package telemetry provides opt-in, privacy-filtered error reporting to Sentry.
package telemetry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/errors"
	"github.com/StateFromJakeFarm/research/internal/logger"
)

// sentryInitialized tracks whether Init installed a client
var sentryInitialized atomic.Bool

// allowedExtra lists the event extra keys that survive privacy filtering
var allowedExtra = map[string]bool{
	"error_type": true,
	"component":  true,
}

// Init initializes Sentry when it is explicitly enabled in settings and routes
// enhanced errors to it. It is a no-op when Sentry is disabled.
func Init(settings *conf.Settings, log logger.Logger) error {
	if !settings.Sentry.Enabled {
		if log != nil {
			log.Debug("sentry telemetry is disabled (opt-in required)")
		}
		return nil
	}
	return initSentry(settings, nil, log)
}

// initSentry is Init with an injectable transport
func initSentry(settings *conf.Settings, transport sentry.Transport, log logger.Logger) error {
	version := settings.Version
	if version == "" {
		version = "dev"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		Transport:        transport,
		SampleRate:       1.0,
		Debug:            settings.Sentry.Debug,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "",
		Release:          fmt.Sprintf("sounds@%s", version),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	sentryInitialized.Store(true)

	if log != nil {
		log.Info("sentry telemetry initialized",
			logger.String("release", "sounds@"+version),
			logger.Bool("debug", settings.Sentry.Debug))
	}
	return nil
}

// applyPrivacyFilters strips host and user identifying data from an event
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	for k := range event.Extra {
		if !allowedExtra[k] {
			delete(event.Extra, k)
		}
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	return event
}

// Flush waits up to timeout for buffered events to be sent.
// It returns true when there was nothing to flush or everything was delivered.
func Flush(timeout time.Duration) bool {
	if !sentryInitialized.Load() {
		return true
	}
	return sentry.Flush(timeout)
}

// IsEnabled reports whether Init installed a Sentry client
func IsEnabled() bool {
	return sentryInitialized.Load()
}

// shutdown detaches the reporter; used by tests
func shutdown() {
	errors.SetTelemetryReporter(nil)
	sentryInitialized.Store(false)
}
