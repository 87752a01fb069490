// Package observability wires OpenTelemetry tracing and metrics.
package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"atsopt/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "atsopt"

// Manager owns the tracer and meter providers for the process.
type Manager struct {
	settings       Settings
	full           config.ObservabilityConfig
	resource       *resource.Resource
	tracerProvider oteltrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	prometheus     *PrometheusExporter
	shutdownFuncs  []func(context.Context) error
}

// NewManager builds providers from configuration. A disabled configuration
// yields a Manager with no-op tracing and nil-safe empty metrics.
func NewManager(cfg config.ObservabilityConfig, version string) (*Manager, error) {
	settings := SettingsFrom(cfg, version)
	m := &Manager{
		settings:       settings,
		full:           cfg,
		tracerProvider: noop.NewTracerProvider(),
	}
	if !settings.Enabled {
		return m, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(settings.ServiceName),
			semconv.ServiceVersion(settings.ServiceVersion),
			attribute.String("service.instance.id", settings.ServiceInstance),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	m.resource = res

	if settings.TracingEnabled {
		if err := m.initTracing(); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if settings.MetricsEnabled {
		if err := m.initMetrics(); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Manager) initTracing() error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(m.resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(m.settings.SampleRate))),
	}

	switch {
	case m.settings.ConsoleOutput:
		var stdoutOpts []stdouttrace.Option
		if m.settings.PrettyPrint {
			stdoutOpts = append(stdoutOpts, stdouttrace.WithPrettyPrint())
		}
		exporter, err := stdouttrace.New(stdoutOpts...)
		if err != nil {
			return fmt.Errorf("failed to create console trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case m.full.OTLP.Enabled:
		exporter, err := otlptracehttp.New(context.Background(), m.otlpTraceOptions()...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	// With no exporter the provider still issues sampled spans so trace IDs propagate.

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics() error {
	var readers []sdkmetric.Reader

	if m.settings.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.settings.CollectionInterval)))
	}

	if m.full.OTLP.Enabled {
		exporter, err := otlpmetrichttp.New(context.Background(), m.otlpMetricOptions()...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.settings.CollectionInterval)))
	}

	if m.settings.Prometheus.Enabled {
		exporter, err := NewPrometheusExporter(m.settings.Prometheus)
		if err != nil {
			return err
		}
		m.prometheus = exporter
		readers = append(readers, exporter.Reader())
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(m.resource)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(instrumentationName), m.full.CustomMetrics)
	if err != nil {
		return err
	}
	m.metrics = metrics
	return nil
}

func (m *Manager) otlpTraceOptions() []otlptracehttp.Option {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(m.full.OTLP.Endpoint)}
	if m.full.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(m.full.OTLP.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(m.full.OTLP.Headers))
	}
	return opts
}

func (m *Manager) otlpMetricOptions() []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(m.full.OTLP.Endpoint)}
	if m.full.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(m.full.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(m.full.OTLP.Headers))
	}
	return opts
}

// Metrics returns the instruments. It never returns nil.
func (m *Manager) Metrics() *Metrics {
	if m == nil || m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// Tracer returns a named tracer, a no-op one when tracing is off.
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if m == nil || m.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// HTTPMiddleware wraps handlers with otelhttp instrumentation.
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if m == nil || !m.settings.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	opts := []otelhttp.Option{otelhttp.WithTracerProvider(m.tracerProvider)}
	if m.meterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(m.meterProvider))
	}
	return otelhttp.NewMiddleware(m.settings.ServiceName, opts...)
}

// MetricsHandler serves the Prometheus scrape endpoint, or nil when disabled.
func (m *Manager) MetricsHandler() http.Handler {
	if m == nil || m.prometheus == nil {
		return nil
	}
	return m.prometheus.Handler()
}

// StartMetricsServer serves MetricsHandler on its own port in the background.
func (m *Manager) StartMetricsServer() error {
	if m == nil || m.prometheus == nil {
		return nil
	}
	srv, err := m.prometheus.Start()
	if err != nil {
		return err
	}
	m.shutdownFuncs = append(m.shutdownFuncs, srv.Shutdown)
	return nil
}

// Settings returns the resolved settings.
func (m *Manager) Settings() Settings {
	return m.settings
}

// Shutdown flushes exporters and stops the metrics server.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	var errs []error
	for i := len(m.shutdownFuncs) - 1; i >= 0; i-- {
		if err := m.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
