// Package telemetry wires OpenTelemetry tracing and Pyroscope continuous
// profiling into DittoNAS.
//
// Spans can be started before or without Setup: until a provider is
// installed the global OpenTelemetry tracer is a no-op.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/marmos91/dittonas/internal/logger"
)

const (
	instrumentationName = "github.com/marmos91/dittonas"
	flushTimeout        = 5 * time.Second
)

// Options configures Setup.
type Options struct {
	ServiceName    string
	ServiceVersion string
	Tracing        TracingOptions
	Profiling      ProfilingOptions
}

// TracingOptions configures the OTLP trace exporter.
type TracingOptions struct {
	Enabled  bool
	Endpoint string // OTLP gRPC collector, host:port
	Insecure bool

	// SampleRate is the share of new root traces kept. Requests that
	// arrive with a sampled traceparent are always kept.
	SampleRate float64
}

// Shutdown flushes and stops what Setup started.
type Shutdown func(context.Context) error

// Setup starts tracing and profiling as enabled in opts. The returned
// Shutdown stops them in reverse order and is never nil on success.
func Setup(ctx context.Context, opts Options) (Shutdown, error) {
	var stops []Shutdown
	stopAll := func(ctx context.Context) error {
		var errs []error
		for i := len(stops) - 1; i >= 0; i-- {
			errs = append(errs, stops[i](ctx))
		}
		return errors.Join(errs...)
	}

	if opts.Tracing.Enabled {
		stop, err := startTracing(ctx, opts)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
		logger.Info("Tracing enabled",
			logger.KeyAddress, opts.Tracing.Endpoint,
			"sample_rate", opts.Tracing.SampleRate)
	}

	if opts.Profiling.Enabled {
		stop, err := startProfiling(opts)
		if err != nil {
			_ = stopAll(ctx)
			return nil, err
		}
		stops = append(stops, stop)
		logger.Info("Profiling enabled",
			logger.KeyAddress, opts.Profiling.Endpoint,
			"profiles", opts.Profiling.ProfileTypes)
	}

	return stopAll, nil
}

func startTracing(ctx context.Context, opts Options) (Shutdown, error) {
	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Tracing.Endpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(opts.ServiceName + "/" + opts.ServiceVersion)),
	}
	if opts.Tracing.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.Tracing.SampleRate))),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, flushTimeout)
		defer cancel()
		return provider.Shutdown(ctx)
	}, nil
}

// StartSpan starts a span on the DittoNAS tracer. The caller ends it.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// RecordError marks the span in ctx as failed. A nil err is ignored.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes annotates the span in ctx.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// SpanIDs returns the hex trace and span ids of the span in ctx, or empty
// strings when ctx carries no valid span.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
