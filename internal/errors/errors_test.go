package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = NewStd("sentinel")

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(err *EnhancedError) { r.reported = append(r.reported, err) }
func (r *recordingReporter) IsEnabled() bool                { return true }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.Timestamp.IsZero())
}

func TestBuilderKeepsSentinelChain(t *testing.T) {
	err := New(fmt.Errorf("%w: fold 11", errSentinel)).
		Category(CategoryConfiguration).
		Context("test_fold", 11).
		Build()

	assert.ErrorIs(t, err, errSentinel)
	assert.True(t, IsCategory(err, CategoryConfiguration))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, 11, err.GetContext()["test_fold"])

	wrapped := fmt.Errorf("constructing manager: %w", err)
	assert.ErrorIs(t, wrapped, errSentinel)
	assert.True(t, IsCategory(wrapped, CategoryConfiguration))
}

func TestIsMatchesCategory(t *testing.T) {
	a := New(NewStd("a")).Category(CategoryNotFound).Build()
	b := New(NewStd("b")).Category(CategoryNotFound).Build()
	c := New(NewStd("c")).Category(CategoryAudio).Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestContextHelpers(t *testing.T) {
	ee := New(NewStd("boom")).
		FileContext("/data/fold1/7389-3-0-0.wav", 2048).
		NetworkContext("https://soundbible.com/x.mp3", 2*time.Second).
		Timing("decode", 150*time.Millisecond).
		Build()

	ctx := ee.GetContext()
	assert.Equal(t, "absolute-path", ctx["file_type"])
	assert.Equal(t, "wav", ctx["file_extension"])
	assert.Equal(t, "small", ctx["file_size_category"])
	assert.Equal(t, "https-endpoint", ctx["url_category"])
	assert.InDelta(t, 2.0, ctx["timeout_seconds"], 1e-9)
	assert.Equal(t, "decode", ctx["operation"])
	assert.Equal(t, int64(150), ctx["duration_ms"])

	// returned context is a copy
	ctx["operation"] = "changed"
	assert.Equal(t, "decode", ee.GetContext()["operation"])
}

func TestPriorityFallsBackToMedium(t *testing.T) {
	ee := New(NewStd("x")).Priority("urgent").Build()
	assert.Equal(t, PriorityMedium, ee.Priority)

	ee = New(NewStd("x")).Priority(PriorityHigh).Build()
	assert.Equal(t, PriorityHigh, ee.Priority)
}

func TestReportingPathDetectsCategory(t *testing.T) {
	reporter := &recordingReporter{}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("failed to decode audio")).Build()

	require.Len(t, reporter.reported, 1)
	assert.Same(t, ee, reporter.reported[0])
	assert.Equal(t, CategoryAudio, ee.Category)

	inner := New(NewStd("inner")).Category(CategoryNotFound).Build()
	outer := New(fmt.Errorf("outer: %w", inner)).Build()
	assert.Equal(t, CategoryNotFound, outer.Category)
}

func TestScrubMessageForPrivacy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"query string", "GET https://a.com/x?token=abc failed", "GET https://a.com/x?[REDACTED] failed"},
		{"home dir", "open /home/alice/data/fold1: no such file", "open /home/[USER]/data/fold1: no such file"},
		{"plain", "nothing to hide", "nothing to hide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrubMessageForPrivacy(tt.in))
		})
	}
}

func TestGenerateErrorTitle(t *testing.T) {
	ee := New(NewStd("x")).
		Category(CategoryAudio).
		Component("audiofile").
		Context("operation", "read_wav").
		Build()

	assert.Equal(t, "Audiofile Audio Decode Error Read Wav", generateErrorTitle(ee, ee.GetComponent()))
}
