package telemetry

import (
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/errors"
)

func TestInitDisabledIsNoop(t *testing.T) {
	settings := conf.DefaultSettings()

	require.NoError(t, Init(settings, nil))
	assert.False(t, IsEnabled())
	assert.True(t, Flush(time.Millisecond))
}

func TestEnhancedErrorsReachSentry(t *testing.T) {
	transport := NewMockTransport()
	settings := conf.DefaultSettings()
	settings.Sentry.Enabled = true
	settings.Version = "1.2.3"

	require.NoError(t, initSentry(settings, transport, nil))
	t.Cleanup(shutdown)
	assert.True(t, IsEnabled())

	_ = errors.Newf("open /home/alice/fold1/7389-3-0-0.wav: permission denied").
		Component("audiofile").
		Category(errors.CategoryFileIO).
		Context("url", "http://soundbible.com/x.wav?token=abc").
		Build()

	events := transport.Events()
	require.Len(t, events, 1)

	event := events[0]
	assert.Contains(t, event.Message, "/home/[USER]/")
	assert.NotContains(t, event.Message, "alice")
	assert.Equal(t, "audiofile", event.Tags["component"])
	assert.Equal(t, "file-io", event.Tags["category"])
	assert.Equal(t, "sounds@1.2.3", event.Release)
	assert.Empty(t, event.ServerName)
}

func TestApplyPrivacyFilters(t *testing.T) {
	event := sentry.NewEvent()
	event.ServerName = "build-host"
	event.User = sentry.User{ID: "42", Email: "x@example.com"}
	event.Contexts["os"] = sentry.Context{"name": "linux"}
	event.Contexts["fold"] = sentry.Context{"value": 3}
	event.Extra["component"] = "scraper"
	event.Extra["cwd"] = "/home/alice"
	event.Tags["hostname"] = "build-host"
	event.Tags["category"] = "scrape"

	filtered := applyPrivacyFilters(event)

	assert.Empty(t, filtered.ServerName)
	assert.True(t, filtered.User.IsEmpty())
	assert.NotContains(t, filtered.Contexts, "os")
	assert.Contains(t, filtered.Contexts, "fold")
	assert.Equal(t, map[string]any{"component": "scraper"}, filtered.Extra)
	assert.NotContains(t, filtered.Tags, "hostname")
	assert.Equal(t, "scrape", filtered.Tags["category"])
}
