package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"leagueforecast/internal/config"
)

const (
	ServiceName = "league-forecast"
	MeterName   = "leagueforecast"
)

// OTelProviders holds the OpenTelemetry providers for one command run
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Metrics        *PipelineMetrics
	Logger         *slog.Logger

	traceOut io.Closer
}

// InitializeOTel sets up tracing and metrics for a command.
// Traces go to stdout, to logs/<command>.traces.json or nowhere depending on
// cfg.TraceExporter. Metrics are collected through the Prometheus exporter
// into a private registry that MetricsHandler and WriteMetricsFile read from.
func InitializeOTel(cfg config.TelemetryConfig, paths *config.Paths, command string, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(config.AppVersion),
			attribute.String("service.instance.id", generateInstanceID()),
			attribute.String("command", command),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{Logger: logger}

	if err := providers.initializeTracing(cfg, paths, command, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := providers.initializeMetrics(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	metrics, err := CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	providers.Metrics = metrics

	logger.InfoContext(ctx, "OpenTelemetry initialization complete",
		slog.String("command", command),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

func (p *OTelProviders) initializeTracing(cfg config.TelemetryConfig, paths *config.Paths, command string, res *resource.Resource) error {
	var out io.Writer

	switch cfg.TraceExporter {
	case "stdout":
		out = os.Stdout
	case "file":
		path := paths.GetLogPath(command + ".traces.json")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create trace directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		p.traceOut = f
		out = f
	case "none", "":
		p.Tracer = otel.Tracer(MeterName)
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)

	p.TracerProvider = tp
	p.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (p *OTelProviders) initializeMetrics(cfg config.TelemetryConfig, res *resource.Resource) error {
	p.Registry = promclient.NewRegistry()

	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New(prometheus.WithRegisterer(p.Registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		otel.SetMeterProvider(mp)
		p.MeterProvider = mp
		p.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		p.Meter = otel.GetMeterProvider().Meter(MeterName)
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
	return nil
}

// MetricsHandler serves the collected metrics in the Prometheus text format
func (p *OTelProviders) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})
}

// WriteMetricsFile dumps the collected metrics to a Prometheus text file,
// suitable for a node_exporter textfile collector.
func (p *OTelProviders) WriteMetricsFile(path string) error {
	if p.Registry == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	return promclient.WriteToTextfile(path, p.Registry)
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if p.traceOut != nil {
		if err := p.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics groups the instruments recorded by pipeline stages
type PipelineMetrics struct {
	StepExecutions metric.Int64Counter
	StepDuration   metric.Float64Histogram
	RowsProcessed  metric.Int64Counter
	Downloads      metric.Int64Counter
	ModelFit       metric.Float64Histogram
	ModelError     metric.Float64Histogram
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stepExecutions, err := meter.Int64Counter(
		"pipeline_step_executions_total",
		metric.WithDescription("Total number of pipeline step executions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"pipeline_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsProcessed, err := meter.Int64Counter(
		"pipeline_rows_processed_total",
		metric.WithDescription("Rows read or written by pipeline stages"),
	)
	if err != nil {
		return nil, err
	}

	downloads, err := meter.Int64Counter(
		"pipeline_downloads_total",
		metric.WithDescription("Raw season files fetched, by source"),
	)
	if err != nil {
		return nil, err
	}

	modelFit, err := meter.Float64Histogram(
		"model_fit_duration_seconds",
		metric.WithDescription("Random forest fit duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	modelError, err := meter.Float64Histogram(
		"model_evaluation_mae",
		metric.WithDescription("Mean absolute error on the held-out season"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StepExecutions: stepExecutions,
		StepDuration:   stepDuration,
		RowsProcessed:  rowsProcessed,
		Downloads:      downloads,
		ModelFit:       modelFit,
		ModelError:     modelError,
	}, nil
}

// RecordStep records one step execution. A nil receiver is a no-op so callers
// without telemetry can pass nil metrics around.
func (m *PipelineMetrics) RecordStep(ctx context.Context, step string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "completed"
	if err != nil {
		status = "failed"
	}
	attrs := metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	)
	m.StepExecutions.Add(ctx, 1, attrs)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRows counts rows handled by a stage
func (m *PipelineMetrics) RecordRows(ctx context.Context, stage, kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsProcessed.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("kind", kind),
	))
}

// RecordDownload counts a fetched season file
func (m *PipelineMetrics) RecordDownload(ctx context.Context, league, source string) {
	if m == nil {
		return
	}
	m.Downloads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("league", league),
		attribute.String("source", source),
	))
}

// RecordModelFit records how long fitting one target took
func (m *PipelineMetrics) RecordModelFit(ctx context.Context, target string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ModelFit.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("target", target)))
}

// RecordModelError records an evaluation MAE for one target
func (m *PipelineMetrics) RecordModelError(ctx context.Context, target string, mae float64) {
	if m == nil {
		return
	}
	m.ModelError.Record(ctx, mae, metric.WithAttributes(attribute.String("target", target)))
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes adds integer and string attributes to the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
	span.SetAttributes(attrs...)
}
