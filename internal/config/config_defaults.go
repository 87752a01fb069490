package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)

	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.cipherSuites", []string{}) // Use Go defaults
	v.SetDefault("server.tls.clientAuthPolicy", "require")

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// CORS defaults
	v.SetDefault("server.cors.allowedOrigins", []string{"*"})
	v.SetDefault("server.cors.allowedMethods", []string{"POST", "OPTIONS"})
	v.SetDefault("server.cors.allowedHeaders", []string{"Content-Type"})
	v.SetDefault("server.cors.maxAge", 0)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 5*1024*1024)     // 5MB
	v.SetDefault("app.maxRequestSize", 10*1024*1024) // 10MB, base64 inflates PDFs by a third

	// Keyword catalog
	v.SetDefault("keywords.file", "")
	v.SetDefault("keywords.watch", false)
	v.SetDefault("keywords.debounceDelay", time.Second)

	// Synthesis
	v.SetDefault("synthesis.maxLines", 50)
	v.SetDefault("synthesis.headerThreshold", 50)
	v.SetDefault("synthesis.headerLines", 5)
	v.SetDefault("synthesis.summaryMissing", 3)
	v.SetDefault("synthesis.skillsMissing", 5)
	v.SetDefault("synthesis.notesMissing", 5)

	// PDF rendering
	v.SetDefault("pdf.enabled", true)
	v.SetDefault("pdf.pageSize", "A4")
	v.SetDefault("pdf.fontFamily", "Helvetica")
	v.SetDefault("pdf.fontSize", 10.5)
	v.SetDefault("pdf.headingMaxLength", 60)
	v.SetDefault("pdf.circuitBreaker.enabled", true)
	v.SetDefault("pdf.circuitBreaker.maxRequests", 3)
	v.SetDefault("pdf.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("pdf.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("pdf.circuitBreaker.minRequests", 5)
	v.SetDefault("pdf.circuitBreaker.failureThreshold", 0.6)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "atsopt")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.optimizer.enabled", true)
	v.SetDefault("observability.customMetrics.optimizer.trackDuration", true)
	v.SetDefault("observability.customMetrics.optimizer.trackScores", true)
	v.SetDefault("observability.customMetrics.optimizer.trackMissingSkills", true)
	v.SetDefault("observability.customMetrics.documents.enabled", true)
	v.SetDefault("observability.customMetrics.documents.trackExtractions", true)
	v.SetDefault("observability.customMetrics.documents.trackRenders", true)
	v.SetDefault("observability.customMetrics.documents.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCatalogReloads", true)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
