// Package observability sets up OpenTelemetry tracing and metrics with
// console, OTLP, and Prometheus exporters.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumebeaver/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds the application's custom metrics
type Metrics struct {
	// Operation metrics
	OperationDuration metric.Float64Histogram
	ResumesAnalyzed   metric.Int64Counter
	JobsAnalyzed      metric.Int64Counter
	MatchesScored     metric.Int64Counter
	ResumesOptimized  metric.Int64Counter
	ResumesGenerated  metric.Int64Counter

	// Semantic provider metrics
	SemanticCalls     metric.Int64Counter
	SemanticFallbacks metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits metric.Int64Counter
}

// Manager owns the OpenTelemetry providers and custom metrics
type Manager struct {
	cfg            *config.Config
	serviceVersion string
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
	prometheusMux  *http.ServeMux
}

// NewManager creates the observability manager. When observability is
// disabled it returns an inert manager whose tracer and middleware are
// no-ops.
func NewManager(cfg *config.Config, version string) (*Manager, error) {
	m := &Manager{cfg: cfg, serviceVersion: version}
	if !cfg.Observability.Enabled {
		return m, nil
	}

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

func (m *Manager) serviceResource() (*resource.Resource, error) {
	version := m.cfg.Observability.ServiceVersion
	if version == "" {
		version = m.serviceVersion
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.cfg.Observability.ServiceName),
			semconv.ServiceVersion(version),
			attribute.String("service.instance.id", m.cfg.Observability.ServiceInstance),
		),
	)
}

func (m *Manager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case m.cfg.Observability.Console.Enabled:
		opts := []stdouttrace.Option{}
		if m.cfg.Observability.Console.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case m.cfg.Observability.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noopSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := m.serviceResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.cfg.Observability.Tracing.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics() error {
	readers, err := m.setupMetricReaders()
	if err != nil {
		return err
	}

	res, err := m.serviceResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

func (m *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if m.cfg.Observability.Console.Enabled {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(m.collectionInterval())))
	}

	if m.cfg.Observability.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
	}

	if m.cfg.Observability.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(PrometheusConfig{
			Enabled:  true,
			Endpoint: m.cfg.Observability.Prometheus.Endpoint,
			Port:     m.cfg.Observability.Prometheus.Port,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		readers = append(readers, reader)
		m.prometheusMux = mux
		StartPrometheusServer(mux, m.cfg.Observability.Prometheus.Port)
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.cfg.Observability.ServiceName)
	m.metrics = &Metrics{}
	var err error

	m.metrics.OperationDuration, err = meter.Float64Histogram(
		"resumebeaver_operation_duration_seconds",
		metric.WithDescription("Time spent on resume operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create operation duration metric: %w", err)
	}

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.metrics.ResumesAnalyzed, "resumebeaver_resumes_analyzed_total", "Total number of resumes analyzed"},
		{&m.metrics.JobsAnalyzed, "resumebeaver_jobs_analyzed_total", "Total number of job descriptions analyzed"},
		{&m.metrics.MatchesScored, "resumebeaver_matches_scored_total", "Total number of resume-job matches scored"},
		{&m.metrics.ResumesOptimized, "resumebeaver_resumes_optimized_total", "Total number of optimization reports produced"},
		{&m.metrics.ResumesGenerated, "resumebeaver_resumes_generated_total", "Total number of resumes generated"},
		{&m.metrics.SemanticCalls, "resumebeaver_semantic_calls_total", "Total number of semantic provider calls"},
		{&m.metrics.SemanticFallbacks, "resumebeaver_semantic_fallbacks_total", "Total number of neutral semantic fallbacks"},
		{&m.metrics.RateLimitHits, "resumebeaver_rate_limit_hits_total", "Total number of rate limit hits"},
	}
	for _, c := range counters {
		*c.target, err = meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.name, err)
		}
	}

	return nil
}

// GetMetrics returns the metrics instance, empty when metrics are disabled
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// TrackOperation instruments an operation with a span, a duration sample,
// and the matching counter.
func (m *Manager) TrackOperation(ctx context.Context, operation string, fn func(context.Context) error) error {
	tracer := m.Tracer("resumebeaver.engine")
	ctx, span := tracer.Start(ctx, "engine."+operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	span.SetAttributes(attrs...)

	metrics := m.GetMetrics()
	if metrics.OperationDuration != nil {
		metrics.OperationDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	if counter := metrics.operationCounter(operation); counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (mx *Metrics) operationCounter(operation string) metric.Int64Counter {
	switch operation {
	case "analyze_resume":
		return mx.ResumesAnalyzed
	case "analyze_job":
		return mx.JobsAnalyzed
	case "match":
		return mx.MatchesScored
	case "optimize":
		return mx.ResumesOptimized
	case "generate":
		return mx.ResumesGenerated
	}
	return nil
}

// RecordSemanticCall counts a provider call and, when fallback is true, a
// neutral fallback.
func (mx *Metrics) RecordSemanticCall(ctx context.Context, fallback bool) {
	if mx.SemanticCalls != nil {
		mx.SemanticCalls.Add(ctx, 1, metric.WithAttributes(attribute.Bool("fallback", fallback)))
	}
	if fallback && mx.SemanticFallbacks != nil {
		mx.SemanticFallbacks.Add(ctx, 1)
	}
}

// RecordRateLimitHit counts a rejected request
func (mx *Metrics) RecordRateLimitHit(ctx context.Context, key string) {
	if mx.RateLimitHits != nil {
		mx.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
	}
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.cfg.Observability.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		m.cfg.Observability.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer, a no-op one when observability is disabled
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.cfg.Observability.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops all providers
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

type noopSpanExporter struct{}

func (noopSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (noopSpanExporter) Shutdown(ctx context.Context) error { return nil }

func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	otlpConfig := m.cfg.Observability.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	otlpConfig := m.cfg.Observability.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(m.collectionInterval())), nil
}

func (m *Manager) collectionInterval() time.Duration {
	if interval := m.cfg.Observability.Metrics.CollectionInterval; interval > 0 {
		return interval
	}
	return 15 * time.Second
}
