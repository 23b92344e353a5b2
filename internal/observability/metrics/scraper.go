package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ScraperMetrics contains Prometheus metrics for the sound-file scraper
type ScraperMetrics struct {
	registry *prometheus.Registry

	pagesVisitedTotal  prometheus.Counter
	linksFoundTotal    *prometheus.CounterVec
	requestErrorsTotal *prometheus.CounterVec
	responseSizeBytes  prometheus.Histogram
}

// NewScraperMetrics creates and registers new scraper metrics
func NewScraperMetrics(registry *prometheus.Registry) (*ScraperMetrics, error) {
	m := &ScraperMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ScraperMetrics) initMetrics() {
	m.pagesVisitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scraper_pages_visited_total",
		Help: "Total number of pages fetched successfully",
	})

	m.linksFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_links_found_total",
			Help: "Total number of sound file links found, by file extension",
		},
		[]string{"extension"},
	)

	m.requestErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_request_errors_total",
			Help: "Total number of failed page fetches, by HTTP status class",
		},
		[]string{"status"}, // status: 4xx, 5xx, network
	)

	m.responseSizeBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scraper_response_size_bytes",
		Help:    "Size of fetched page bodies",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KB to 16MB
	})
}

// Describe implements the prometheus.Collector interface
func (m *ScraperMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.pagesVisitedTotal.Describe(ch)
	m.linksFoundTotal.Describe(ch)
	m.requestErrorsTotal.Describe(ch)
	m.responseSizeBytes.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *ScraperMetrics) Collect(ch chan<- prometheus.Metric) {
	m.pagesVisitedTotal.Collect(ch)
	m.linksFoundTotal.Collect(ch)
	m.requestErrorsTotal.Collect(ch)
	m.responseSizeBytes.Collect(ch)
}

// RecordPageVisit records one successfully fetched page and its body size
func (m *ScraperMetrics) RecordPageVisit(bodySize int) {
	m.pagesVisitedTotal.Inc()
	m.responseSizeBytes.Observe(float64(bodySize))
}

// RecordLinkFound records a matching sound file link
func (m *ScraperMetrics) RecordLinkFound(extension string) {
	m.linksFoundTotal.WithLabelValues(extension).Inc()
}

// RecordRequestError records a failed fetch. statusCode 0 means no response was received.
func (m *ScraperMetrics) RecordRequestError(statusCode int) {
	m.requestErrorsTotal.WithLabelValues(statusClass(statusCode)).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code > 0:
		return "other"
	default:
		return "network"
	}
}
