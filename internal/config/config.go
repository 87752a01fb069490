package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"atsopt/internal/ats"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Precedence Order:
// 1. Vault (TLS material, if configured) - Highest priority
// 2. Environment Variables (ATSOPT_SERVER_PORT, etc.)
// 3. Config File values
// 4. Default values - Lowest priority
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Keywords      KeywordsConfig      `mapstructure:"keywords"`
	Synthesis     SynthesisConfig     `mapstructure:"synthesis"`
	PDF           PDFConfig           `mapstructure:"pdf"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS       TLSConfig       `mapstructure:"tls"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)
	CAFile   string `mapstructure:"caFile"`   // CA certificate file for client cert verification (PEM, required for mutual mode)

	// Certificate content (used when loaded from Vault instead of files)
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string   `mapstructure:"minVersion"`       // "1.2", "1.3"
	CipherSuites     []string `mapstructure:"cipherSuites"`     // Allowed cipher suites (optional)
	ClientAuthPolicy string   `mapstructure:"clientAuthPolicy"` // "require", "request", "verify"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	Window         time.Duration `mapstructure:"window"`
}

// CORSConfig holds the cross-origin headers sent on every API response
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	AllowedMethods []string `mapstructure:"allowedMethods"`
	AllowedHeaders []string `mapstructure:"allowedHeaders"`
	MaxAge         int      `mapstructure:"maxAge"` // seconds, 0 omits the header
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`    // CLI input files
	MaxRequestSize   int64    `mapstructure:"maxRequestSize"` // HTTP request bodies, base64 PDFs included
}

// KeywordsConfig selects the skill catalog
type KeywordsConfig struct {
	File          string        `mapstructure:"file"`  // empty uses the embedded catalog
	Watch         bool          `mapstructure:"watch"` // reload the file when it changes
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`

	// Content is catalog YAML delivered by Vault; it takes precedence over File.
	Content string `mapstructure:"-"`
}

// SynthesisConfig tunes section classification and document assembly
type SynthesisConfig struct {
	MaxLines        int `mapstructure:"maxLines"`
	HeaderThreshold int `mapstructure:"headerThreshold"`
	HeaderLines     int `mapstructure:"headerLines"`
	SummaryMissing  int `mapstructure:"summaryMissing"`
	SkillsMissing   int `mapstructure:"skillsMissing"`
	NotesMissing    int `mapstructure:"notesMissing"`
}

// PDFConfig controls PDF generation
type PDFConfig struct {
	Enabled          bool                 `mapstructure:"enabled"`
	PageSize         string               `mapstructure:"pageSize"`
	FontFamily       string               `mapstructure:"fontFamily"`
	FontSize         float64              `mapstructure:"fontSize"`
	HeadingMaxLength int                  `mapstructure:"headingMaxLength"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	Optimizer      OptimizerMetricsConfig      `mapstructure:"optimizer"`
	Documents      DocumentMetricsConfig       `mapstructure:"documents"`
	Infrastructure InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// OptimizerMetricsConfig holds match/optimization metrics configuration
type OptimizerMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackScores     bool `mapstructure:"trackScores"`
	TrackMissingLen bool `mapstructure:"trackMissingSkills"`
}

// DocumentMetricsConfig holds PDF extraction and rendering metrics configuration
type DocumentMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackExtractions  bool `mapstructure:"trackExtractions"`
	TrackRenders      bool `mapstructure:"trackRenders"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackReloads    bool `mapstructure:"trackCatalogReloads"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("ATSOPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'ATSOPT'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/atsopt/")
	v.AddConfigPath("$HOME/.atsopt")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/atsopt/, $HOME/.atsopt, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	config, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return config, nil
}

// Defaults returns the configuration built from default values only.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.applyFallbacks()
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.App.MaxRequestSize <= 0 {
		return fmt.Errorf("app.maxRequestSize must be positive")
	}

	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("synthesis configuration error: %w", err)
	}

	if c.PDF.CircuitBreaker.FailureThreshold < 0 || c.PDF.CircuitBreaker.FailureThreshold > 1 {
		return fmt.Errorf("pdf.circuitBreaker.failureThreshold must be between 0 and 1")
	}

	if c.Keywords.Watch && c.Keywords.File == "" {
		return fmt.Errorf("keywords.watch requires keywords.file")
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// Validate checks the synthesis limits
func (s SynthesisConfig) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"maxLines", s.MaxLines},
		{"headerThreshold", s.HeaderThreshold},
		{"headerLines", s.HeaderLines},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("%s must be positive", c.name)
		}
	}
	if s.SummaryMissing < 0 || s.SkillsMissing < 0 || s.NotesMissing < 0 {
		return fmt.Errorf("missing-skill limits cannot be negative")
	}
	return nil
}

// ToOptions converts the synthesis settings for the optimizer
func (s SynthesisConfig) ToOptions() ats.Options {
	return ats.Options{
		Sections: ats.SectionOptions{
			MaxLines:        s.MaxLines,
			HeaderThreshold: s.HeaderThreshold,
		},
		HeaderLines:    s.HeaderLines,
		SummaryMissing: s.SummaryMissing,
		SkillsMissing:  s.SkillsMissing,
		NotesMissing:   s.NotesMissing,
	}
}
