package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"equitybins/internal/config"
)

// MeterName is the instrumentation scope for spans and metrics
const MeterName = "equitybins"

// Telemetry holds the tracer and run metrics for one invocation.
// With everything disabled it carries no-op implementations.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Metrics        *RunMetrics

	registry    *promclient.Registry
	metricsFile string
	traceOut    io.Closer
	logger      *slog.Logger
}

// RunMetrics are the instruments recorded by the pipeline
type RunMetrics struct {
	RowsLoaded     metric.Int64Gauge
	RowsCleaned    metric.Int64Gauge
	BinsTotal      metric.Int64Gauge
	BinsEmpty      metric.Int64Gauge
	WeightedReturn metric.Float64Gauge
	StageDuration  metric.Float64Histogram
}

// InitializeTelemetry sets up tracing and metrics according to cfg.
// Spans go to cfg.TraceFile, or stderr when no file is set.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, stderr io.Writer) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Telemetry{
		Tracer:      tracenoop.NewTracerProvider().Tracer(MeterName),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", config.AppVersion),
	)

	if cfg.Tracing {
		if err := t.initializeTracing(cfg, res, stderr); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	meter := metricnoop.NewMeterProvider().Meter(MeterName)
	if cfg.MetricsFile != "" {
		m, err := t.initializeMetrics(res)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		meter = m
	}

	metrics, err := createRunMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}
	t.Metrics = metrics

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing sets up a synchronous stdout span exporter
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, stderr io.Writer) error {
	out := stderr
	if cfg.TraceFile != "" {
		file, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		t.traceOut = file
		out = file
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(out),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// A one-shot CLI exports each span as it ends
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

// initializeMetrics wires the otel Prometheus exporter to a private registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) (metric.Meter, error) {
	t.registry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(t.registry),
		prometheus.WithoutTargetInfo(),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	return t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion)), nil
}

// createRunMetrics creates the pipeline instruments
func createRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	rowsLoaded, err := meter.Int64Gauge("equitybins_rows_loaded",
		metric.WithDescription("Rows read from the input table"))
	if err != nil {
		return nil, err
	}

	rowsCleaned, err := meter.Int64Gauge("equitybins_rows_cleaned",
		metric.WithDescription("Rows left after dropping incomplete records"))
	if err != nil {
		return nil, err
	}

	binsTotal, err := meter.Int64Gauge("equitybins_bins",
		metric.WithDescription("Bins over the factor range"))
	if err != nil {
		return nil, err
	}

	binsEmpty, err := meter.Int64Gauge("equitybins_bins_empty",
		metric.WithDescription("Bins without rows, excluded from the result"))
	if err != nil {
		return nil, err
	}

	weightedReturn, err := meter.Float64Gauge("equitybins_weighted_return",
		metric.WithDescription("Count-weighted average of per-bin mean returns"))
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram("equitybins_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RowsLoaded:     rowsLoaded,
		RowsCleaned:    rowsCleaned,
		BinsTotal:      binsTotal,
		BinsEmpty:      binsEmpty,
		WeightedReturn: weightedReturn,
		StageDuration:  stageDuration,
	}, nil
}

// StartStage opens a span for a pipeline stage. Calling the returned func
// ends the span, marks it failed when err is non-nil and records the duration.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, stage, trace.WithAttributes(
		attribute.String("run_id", GetRunID(ctx)),
	))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", stage)))
	}
}

// Shutdown writes the metrics textfile, then stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.registry != nil && t.metricsFile != "" {
		if err := promclient.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		} else {
			t.logger.DebugContext(ctx, "Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}
