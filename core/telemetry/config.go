package telemetry

import "time"

// Config holds configuration for OpenTelemetry tracing and metrics.
type Config struct {
	// Enabled installs the OTLP exporters. When false spans and measurements are discarded.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the OTLP/HTTP collector address (host:port).
	Endpoint string `mapstructure:"endpoint" default:"localhost:4318"`
	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure" default:"true"`
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `mapstructure:"service_name" default:"inventory-tracker"`
	// SampleRatio is the fraction of root spans sampled.
	SampleRatio float64 `mapstructure:"sample_ratio" default:"1"`
	// MetricInterval is how often cycle counters are exported.
	MetricInterval time.Duration `mapstructure:"metric_interval" default:"60s"`
}
