// Package telemetry sets up OpenTelemetry tracing for a scan run.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "shaihulud"

// Config defines the information needed to init tracing.
type Config struct {
	// ExporterEndpoint is the OTLP/gRPC collector address. Empty disables export.
	ExporterEndpoint string
	InsecureExporter bool
	RunID            string
}

// InitTracing returns the tracer provider for the run and a cleanup func that
// flushes pending spans. Without an endpoint the provider is a no-op.
func InitTracing(log logrus.FieldLogger, cfg Config) (trace.TracerProvider, func(ctx context.Context), error) {
	if cfg.ExporterEndpoint == "" {
		return noop.NewTracerProvider(), func(context.Context) {}, nil
	}

	attrs := []attribute.KeyValue{semconv.ServiceNameKey.String(ServiceName)}
	if cfg.RunID != "" {
		attrs = append(attrs, attribute.String("scan.run_id", cfg.RunID))
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, attrs...)

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.ExporterEndpoint)}
	if cfg.InsecureExporter {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	cleanup := func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("shutting down tracer provider")
		}
	}

	log.WithField("endpoint", cfg.ExporterEndpoint).Debug("trace export enabled")

	return tp, cleanup, nil
}
