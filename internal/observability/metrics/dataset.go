// Package metrics provides Prometheus metrics for the dataset batcher and the scraper.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// DatasetMetrics contains Prometheus metrics for UrbanSound batch production
type DatasetMetrics struct {
	registry *prometheus.Registry

	batchesTotal       prometheus.Counter
	samplesTotal       *prometheus.CounterVec
	paddedFilesTotal   prometheus.Counter
	cursorWrapsTotal   prometheus.Counter
	decodeErrorsTotal  *prometheus.CounterVec
	decodeDuration     prometheus.Histogram
	cacheLookupsTotal  *prometheus.CounterVec
	trainingFilesGauge prometheus.Gauge
	testFoldGauge      prometheus.Gauge
}

// NewDatasetMetrics creates and registers new dataset metrics
func NewDatasetMetrics(registry *prometheus.Registry) (*DatasetMetrics, error) {
	m := &DatasetMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DatasetMetrics) initMetrics() {
	m.batchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbansound_batches_total",
		Help: "Total number of batches produced",
	})

	m.samplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_samples_total",
			Help: "Total number of samples emitted in batches, by class label",
		},
		[]string{"label"},
	)

	m.paddedFilesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbansound_padded_files_total",
		Help: "Total number of decoded files shorter than the file duration that were zero padded",
	})

	m.cursorWrapsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbansound_cursor_wraps_total",
		Help: "Total number of times a batch cursor wrapped back to the start of the training list",
	})

	m.decodeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_decode_errors_total",
			Help: "Total number of failed sample loads, by reason",
		},
		[]string{"reason"}, // reason: decode, label
	)

	m.decodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "urbansound_decode_duration_seconds",
		Help:    "Time taken to decode and resample one audio file",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	})

	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_cache_lookups_total",
			Help: "Total number of decoded waveform cache lookups, by result",
		},
		[]string{"result"}, // result: hit, miss
	)

	m.trainingFilesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "urbansound_training_files",
		Help: "Number of files in the training list",
	})

	m.testFoldGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "urbansound_test_fold",
		Help: "Fold number held out for testing",
	})
}

// Describe implements the prometheus.Collector interface
func (m *DatasetMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.batchesTotal.Describe(ch)
	m.samplesTotal.Describe(ch)
	m.paddedFilesTotal.Describe(ch)
	m.cursorWrapsTotal.Describe(ch)
	m.decodeErrorsTotal.Describe(ch)
	m.decodeDuration.Describe(ch)
	m.cacheLookupsTotal.Describe(ch)
	m.trainingFilesGauge.Describe(ch)
	m.testFoldGauge.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *DatasetMetrics) Collect(ch chan<- prometheus.Metric) {
	m.batchesTotal.Collect(ch)
	m.samplesTotal.Collect(ch)
	m.paddedFilesTotal.Collect(ch)
	m.cursorWrapsTotal.Collect(ch)
	m.decodeErrorsTotal.Collect(ch)
	m.decodeDuration.Collect(ch)
	m.cacheLookupsTotal.Collect(ch)
	m.trainingFilesGauge.Collect(ch)
	m.testFoldGauge.Collect(ch)
}

// RecordIndex records the partition chosen at construction
func (m *DatasetMetrics) RecordIndex(testFold, trainingFiles int) {
	m.testFoldGauge.Set(float64(testFold))
	m.trainingFilesGauge.Set(float64(trainingFiles))
}

// RecordBatch records one produced batch and the labels it carried
func (m *DatasetMetrics) RecordBatch(labels []int) {
	m.batchesTotal.Inc()
	for _, label := range labels {
		m.samplesTotal.WithLabelValues(strconv.Itoa(label)).Inc()
	}
}

// RecordPadding records a file that was zero padded to the full duration
func (m *DatasetMetrics) RecordPadding() {
	m.paddedFilesTotal.Inc()
}

// RecordCursorWrap records a cursor reset to the start of the list
func (m *DatasetMetrics) RecordCursorWrap() {
	m.cursorWrapsTotal.Inc()
}

// RecordDecodeDuration records how long one decode took, in seconds
func (m *DatasetMetrics) RecordDecodeDuration(seconds float64) {
	m.decodeDuration.Observe(seconds)
}

// RecordDecodeError records a failed sample load
func (m *DatasetMetrics) RecordDecodeError(reason string) {
	m.decodeErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a waveform cache hit or miss
func (m *DatasetMetrics) RecordCacheLookup(hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}
