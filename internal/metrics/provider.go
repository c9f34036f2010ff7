// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// Metrics are kept in a private registry and written to a node_exporter textfile when
// the process finishes, since model runs are short-lived batch jobs.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider manages the OpenTelemetry meter provider and Prometheus exporter.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
	lastRun       prometheus.Gauge
}

// NewProvider creates a meter provider exporting into a private Prometheus registry.
// namespace prefixes the provider's own series (e.g. modelguard_last_run_timestamp_seconds).
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time at which the metrics textfile was last written.",
	})
	if err := registry.Register(lastRun); err != nil {
		return nil, fmt.Errorf("failed to register last run gauge: %w", err)
	}

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
		lastRun:       lastRun,
	}, nil
}

// MeterProvider returns the OpenTelemetry meter provider for creating meters.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Registry returns the Prometheus registry the exporter writes to.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile stamps the last run gauge and writes the registry in Prometheus text
// format to path, replacing any previous file atomically. The parent directory is
// created if missing.
func (p *Provider) WriteTextfile(path string) error {
	p.lastRun.SetToCurrentTime()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown performs cleanup of the metrics provider and flushes any pending metrics.
// Write the textfile before calling Shutdown.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
