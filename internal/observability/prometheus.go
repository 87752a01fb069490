package observability

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// PrometheusExporter bridges OTel metrics into a dedicated Prometheus registry.
type PrometheusExporter struct {
	cfg      PrometheusConfig
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

// NewPrometheusExporter creates the registry and the OTel reader feeding it.
// Go runtime and process collectors are registered alongside.
func NewPrometheusExporter(cfg PrometheusConfig) (*PrometheusExporter, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	reader, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	return &PrometheusExporter{cfg: cfg, registry: registry, reader: reader}, nil
}

// Reader is the metric reader to install on the meter provider.
func (p *PrometheusExporter) Reader() sdkmetric.Reader {
	return p.reader
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Start serves Handler at the configured endpoint on a dedicated port.
func (p *PrometheusExporter) Start() (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle(p.cfg.Endpoint, p.Handler())

	addr := ":" + p.cfg.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for Prometheus metrics on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Prometheus server error: %v", err)
		}
	}()

	log.Printf("Prometheus metrics available at http://localhost%s%s", addr, p.cfg.Endpoint)
	return server, nil
}
