package observability

import (
	"time"

	"atsopt/internal/config"
)

// Settings is the flattened view of observability configuration
type Settings struct {
	ServiceName        string
	ServiceVersion     string
	ServiceInstance    string
	Enabled            bool
	TracingEnabled     bool
	MetricsEnabled     bool
	ConsoleOutput      bool
	PrettyPrint        bool
	SampleRate         float64
	CollectionInterval time.Duration
	Prometheus         PrometheusConfig
}

// SettingsFrom resolves settings, using version when no service version is configured
func SettingsFrom(cfg config.ObservabilityConfig, version string) Settings {
	s := Settings{
		ServiceName:        cfg.ServiceName,
		ServiceVersion:     cfg.ServiceVersion,
		ServiceInstance:    cfg.ServiceInstance,
		Enabled:            cfg.Enabled,
		TracingEnabled:     cfg.Tracing.Enabled,
		MetricsEnabled:     cfg.Metrics.Enabled,
		ConsoleOutput:      cfg.Console.Enabled,
		PrettyPrint:        cfg.Console.PrettyPrint,
		SampleRate:         cfg.Tracing.SampleRate,
		CollectionInterval: cfg.Metrics.CollectionInterval,
		Prometheus: PrometheusConfig{
			Enabled:  cfg.Prometheus.Enabled,
			Endpoint: cfg.Prometheus.Endpoint,
			Port:     cfg.Prometheus.Port,
		},
	}

	if s.ServiceName == "" {
		s.ServiceName = "atsopt"
	}
	if s.ServiceVersion == "" {
		s.ServiceVersion = version
	}
	if s.ServiceInstance == "" {
		s.ServiceInstance = s.ServiceName + "-1"
	}
	if s.SampleRate <= 0 || s.SampleRate > 1 {
		s.SampleRate = 1.0
	}
	if s.CollectionInterval <= 0 {
		s.CollectionInterval = 15 * time.Second
	}
	if s.Prometheus.Endpoint == "" {
		s.Prometheus.Endpoint = "/metrics"
	}
	return s
}
