package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetMetricsRecordBatch(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewDatasetMetrics(registry)
	require.NoError(t, err)

	m.RecordBatch([]int{3, 3, 7})
	m.RecordBatch([]int{0})

	assert.InDelta(t, 2, testutil.ToFloat64(m.batchesTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.samplesTotal.WithLabelValues("3")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.samplesTotal.WithLabelValues("7")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.samplesTotal.WithLabelValues("0")), 0)
}

func TestDatasetMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewDatasetMetrics(registry)
	require.NoError(t, err)

	m.RecordIndex(4, 7895)
	m.RecordPadding()
	m.RecordCursorWrap()
	m.RecordCursorWrap()
	m.RecordDecodeError("decode")
	m.RecordDecodeDuration(0.02)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	assert.InDelta(t, 4, testutil.ToFloat64(m.testFoldGauge), 0)
	assert.InDelta(t, 7895, testutil.ToFloat64(m.trainingFilesGauge), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.paddedFilesTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.cursorWrapsTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.decodeErrorsTotal.WithLabelValues("decode")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues(CacheHit)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.cacheLookupsTotal.WithLabelValues(CacheMiss)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.decodeDuration))
}

func TestDatasetMetricsDoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewDatasetMetrics(registry)
	require.NoError(t, err)

	_, err = NewDatasetMetrics(registry)
	assert.Error(t, err)
}

func TestScraperMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewScraperMetrics(registry)
	require.NoError(t, err)

	m.RecordPageVisit(2048)
	m.RecordLinkFound("wav")
	m.RecordLinkFound("wav")
	m.RecordLinkFound("mp3")

	tests := []struct {
		code int
		want string
	}{
		{0, "network"},
		{302, "other"},
		{404, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		m.RecordRequestError(tt.code)
		assert.InDelta(t, 1, testutil.ToFloat64(m.requestErrorsTotal.WithLabelValues(tt.want)), 0, "status %d", tt.code)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(m.pagesVisitedTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.linksFoundTotal.WithLabelValues("wav")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.linksFoundTotal.WithLabelValues("mp3")), 0)
}

func TestWriteTextfile(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewScraperMetrics(registry)
	require.NoError(t, err)
	m.RecordLinkFound("mp3")

	path := filepath.Join(t.TempDir(), "sounds.prom")
	require.NoError(t, WriteTextfile(path, registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `scraper_links_found_total{extension="mp3"} 1`))
}

func TestWriteTextfileBadPath(t *testing.T) {
	registry := prometheus.NewRegistry()
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"), registry)
	assert.Error(t, err)
}
