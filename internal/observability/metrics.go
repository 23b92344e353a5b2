// Package observability wires the metric collectors of the sounds tool into one registry.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/StateFromJakeFarm/research/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Dataset  *metrics.DatasetMetrics
	Scraper  *metrics.ScraperMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go runtime metrics: %w", err)
	}

	datasetMetrics, err := metrics.NewDatasetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Dataset metrics: %w", err)
	}

	scraperMetrics, err := metrics.NewScraperMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Scraper metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Dataset:  datasetMetrics,
		Scraper:  scraperMetrics,
	}, nil
}

// Registry returns the registry all collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile exports the current metric values to path. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return metrics.WriteTextfile(path, m.registry)
}
