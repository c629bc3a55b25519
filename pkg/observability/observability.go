// Package observability provides OpenTelemetry tracing for spawnpool tooling.
// Spans are meant for coarse operations — benchmark scenarios, pool
// initialization, bulk releases — not the per-spawn hot path, which is
// covered by the metrics package instead.
package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ajitpratap0/spawnpool"

var (
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	initOnce sync.Once
)

// Config contains tracing configuration.
type Config struct {
	ServiceName  string
	SamplingRate float64
	PrettyPrint  bool
}

// Init sets up the tracer provider with a stdout exporter. Safe to call more
// than once; only the first call takes effect.
func Init(cfg Config) error {
	var err error

	initOnce.Do(func() {
		serviceName := cfg.ServiceName
		if serviceName == "" {
			serviceName = "spawnpool"
		}

		var res *resource.Resource
		res, err = resource.New(context.Background(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(serviceName),
			),
		)
		if err != nil {
			err = fmt.Errorf("failed to create resource: %w", err)
			return
		}

		opts := []stdouttrace.Option{}
		if cfg.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}

		var exporter *stdouttrace.Exporter
		exporter, err = stdouttrace.New(opts...)
		if err != nil {
			err = fmt.Errorf("failed to create stdout exporter: %w", err)
			return
		}

		sampler := sdktrace.AlwaysSample()
		if cfg.SamplingRate > 0 && cfg.SamplingRate < 1 {
			sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
		}

		provider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sampler),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		tracer = provider.Tracer(tracerName)
	})

	return err
}

// Shutdown flushes and stops the tracer provider.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	return provider.Shutdown(ctx)
}

// Tracer returns the configured tracer, or a no-op tracer when Init has not
// been called.
func Tracer() trace.Tracer {
	if tracer == nil {
		return otel.Tracer(tracerName)
	}
	return tracer
}

// TraceOperation runs fn inside a span named after the operation, recording
// any returned error on the span.
func TraceOperation(ctx context.Context, operation string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := Tracer().Start(ctx, operation, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
