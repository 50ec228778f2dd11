package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the global tracer and meter providers. With telemetry
// disabled it leaves the global no-op providers in place and returns a
// no-op shutdown.
func Setup(ctx context.Context, cfg Config, log *zap.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp trace exporter: %w", err)
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create otlp metric exporter: %w", err)
	}

	tracerProvider := NewProvider(cfg, sdktrace.WithBatcher(traceExporter))
	meterProvider := NewMeterProvider(cfg, sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(metricInterval(cfg))),
	))

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("OpenTelemetry error", zap.Error(err))
	}))

	log.Info("Telemetry enabled",
		zap.String("endpoint", cfg.Endpoint),
		zap.Float64("sample_ratio", cfg.SampleRatio),
		zap.Duration("metric_interval", metricInterval(cfg)),
	)
	return func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}, nil
}

// NewProvider builds a tracer provider with the service resource and sampler
// derived from cfg.
func NewProvider(cfg Config, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(serviceResource(cfg)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}, opts...)
	return sdktrace.NewTracerProvider(opts...)
}

// NewMeterProvider builds a meter provider carrying the service resource.
// Readers are supplied through opts.
func NewMeterProvider(cfg Config, opts ...sdkmetric.Option) *sdkmetric.MeterProvider {
	opts = append([]sdkmetric.Option{sdkmetric.WithResource(serviceResource(cfg))}, opts...)
	return sdkmetric.NewMeterProvider(opts...)
}

func serviceResource(cfg Config) *resource.Resource {
	name := cfg.ServiceName
	if name == "" {
		name = "inventory-tracker"
	}
	return resource.NewSchemaless(attribute.String("service.name", name))
}

func metricInterval(cfg Config) time.Duration {
	if cfg.MetricInterval <= 0 {
		return time.Minute
	}
	return cfg.MetricInterval
}
