package telemetry

import (
	"cmwizard/internal/components/configutil"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const telemetryConfigName = "telemetry.json5"

// Exporter is where one signal (traces or metrics) is shipped to. Exactly
// one of the endpoints should be set, grpc wins when both are.
type Exporter struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (e Exporter) protocol() (string, error) {
	switch {
	case e.GrpcEndpoint != "":
		return "grpc", nil
	case e.HttpEndpoint != "":
		return "http", nil
	}
	return "", errors.New("no otlp endpoint configured")
}

type Config struct {
	Otlp struct {
		Traces  Exporter `json:"traces"`
		Metrics Exporter `json:"metrics"`
	} `json:"otlp"`
	// MetricInterval is how often metrics are pushed, defaults to 5s.
	MetricInterval string `json:"metric_interval"`
}

// Providers are the otel providers installed as globals by Setup. Both are
// nil when telemetry is not configured.
type Providers struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (p Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		errs = append(errs, p.TracerProvider.Shutdown(ctx))
	}
	if p.MeterProvider != nil {
		errs = append(errs, p.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// SetupFromEnv looks for telemetry.json5 in the working directory and its
// parents. Without one the global noop providers stay in place.
func SetupFromEnv(ctx context.Context, serviceName string) (Providers, error) {
	config, err := configutil.ReadRecursively[Config](telemetryConfigName)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("otel disabled", "reason", "no "+telemetryConfigName)
		return Providers{}, nil
	}
	if err != nil {
		return Providers{}, err
	}
	return Setup(ctx, serviceName, config)
}

func Setup(ctx context.Context, serviceName string, config Config) (Providers, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	interval := 5 * time.Second
	if config.MetricInterval != "" {
		parsed, err := time.ParseDuration(config.MetricInterval)
		if err != nil {
			return Providers{}, fmt.Errorf("metric_interval: %w", err)
		}
		interval = parsed
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return Providers{}, err
	}

	spans, err := spanExporter(ctx, config.Otlp.Traces)
	if err != nil {
		return Providers{}, fmt.Errorf("traces: %w", err)
	}
	metrics, err := metricExporter(ctx, config.Otlp.Metrics)
	if err != nil {
		spans.Shutdown(ctx)
		return Providers{}, fmt.Errorf("metrics: %w", err)
	}

	providers := Providers{
		TracerProvider: trace.NewTracerProvider(
			trace.WithBatcher(spans),
			trace.WithResource(res),
		),
		MeterProvider: metric.NewMeterProvider(
			metric.WithReader(metric.NewPeriodicReader(metrics, metric.WithInterval(interval))),
			metric.WithResource(res),
		),
	}
	otel.SetTracerProvider(providers.TracerProvider)
	otel.SetMeterProvider(providers.MeterProvider)
	return providers, nil
}

func spanExporter(ctx context.Context, e Exporter) (trace.SpanExporter, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	slog.Info("exporting traces", "protocol", protocol)
	if protocol == "grpc" {
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(e.GrpcEndpoint),
			otlptracegrpc.WithHeaders(e.Headers),
		)
	}
	return otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(e.HttpEndpoint),
		otlptracehttp.WithHeaders(e.Headers),
	)
}

func metricExporter(ctx context.Context, e Exporter) (metric.Exporter, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	slog.Info("exporting metrics", "protocol", protocol)
	if protocol == "grpc" {
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpointURL(e.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(e.Headers),
		)
	}
	return otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(e.HttpEndpoint),
		otlpmetrichttp.WithHeaders(e.Headers),
	)
}
