// Package obs wires the client's request instrumentation to OpenTelemetry.
package obs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const scope = "github.com/leadscout/leadscout-go/obs"

var (
	manager     *Manager
	managerOnce sync.Once
)

// Manager coordinates OTEL setup for the process.
type Manager struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer
	meter          metric.Meter
}

type noopSpanExporter struct{}

func (noopSpanExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (noopSpanExporter) Shutdown(context.Context) error { return nil }

// Init configures global tracing/metrics. Safe to call once.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	var initErr error
	managerOnce.Do(func() {
		if opts.ServiceName == "" {
			opts.ServiceName = "leadscout"
		}
		if opts.SampleRatio <= 0 || opts.SampleRatio > 1 {
			opts.SampleRatio = 1
		}

		res, err := buildResource(opts)
		if err != nil {
			initErr = err
			return
		}

		tracerProvider, err := buildTracerProvider(ctx, opts, res)
		if err != nil {
			initErr = err
			return
		}

		var meterProvider *sdkmetric.MeterProvider
		if !opts.DisableMetrics {
			meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
			otel.SetMeterProvider(meterProvider)
		}

		tracer := tracerProvider.Tracer(scope)
		var meter metric.Meter
		if meterProvider != nil {
			meter = meterProvider.Meter(scope)
		} else {
			meter = otel.Meter(scope)
		}

		manager = &Manager{
			tracerProvider: tracerProvider,
			meterProvider:  meterProvider,
			tracer:         tracer,
			meter:          meter,
		}

		otel.SetTracerProvider(tracerProvider)
		installMetrics(meter)
	})

	if initErr != nil {
		return nil, initErr
	}
	if manager == nil {
		return nil, errors.New("observability already initialized")
	}

	shutdown := func(ctx context.Context) error {
		var firstErr error
		if manager.meterProvider != nil {
			if err := manager.meterProvider.Shutdown(ctx); err != nil {
				firstErr = err
			}
		}
		if err := manager.tracerProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	}

	return shutdown, nil
}

func buildResource(opts Options) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(opts.ServiceName),
	}
	if opts.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(opts.Environment))
	}
	if opts.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(opts.Version))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

func buildTracerProvider(ctx context.Context, opts Options, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var spanExporter sdktrace.SpanExporter
	var err error
	switch opts.Exporter {
	case ExporterStdout:
		spanExporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterNone:
		spanExporter = noopSpanExporter{}
	default:
		spanExporter, err = newOTLPExporter(ctx, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("build exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(opts.SampleRatio)),
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	return tp, nil
}

// Tracer exposes the configured tracer.
func Tracer() trace.Tracer {
	if manager == nil {
		return otel.Tracer(scope)
	}
	return manager.tracer
}

// Meter exposes the configured meter for custom instrumentation.
func Meter() metric.Meter {
	if manager == nil {
		return otel.Meter(scope)
	}
	return manager.meter
}
