package server

import (
	"time"

	"atsopt/internal/common"
	"atsopt/internal/config"
	"atsopt/internal/errors"
	"atsopt/internal/keywords"
	"atsopt/internal/observability"
	"atsopt/internal/render"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Server holds the HTTP API and the components it serves
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   config.RateLimitConfig
	RateLimiter *RateLimiter

	store     *keywords.Store
	renderer  *render.Renderer
	optimizer *common.Optimizer
	watcher   *keywords.Watcher
	obs       *observability.Manager
	tracer    oteltrace.Tracer
	startedAt time.Time

	Logger *errors.Logger
}

// Deps are the components NewServer wires together. Renderer and
// Observability may be nil.
type Deps struct {
	Store         *keywords.Store
	Renderer      *render.Renderer
	Observability *observability.Manager
	Logger        *errors.Logger
}

// NewServer creates a Server from the application configuration
func NewServer(appCfg *config.Config, version string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = errors.NopLogger()
	}
	srvCfg := appCfg.Server

	var rateLimiter *RateLimiter
	if srvCfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			srvCfg.RateLimit.RequestsPerMin,
			srvCfg.RateLimit.BurstCapacity,
			srvCfg.RateLimit.Window,
			logger,
		)
	}

	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.New(appCfg.PDF, logger)
	}

	s := &Server{
		Host:           srvCfg.Host,
		Port:           srvCfg.Port,
		Version:        version,
		AppConfig:      appCfg,
		TLSConfig:      srvCfg.TLS,
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxRequestSize: appCfg.App.MaxRequestSize,
		RateLimit:      srvCfg.RateLimit,
		RateLimiter:    rateLimiter,
		store:          deps.Store,
		renderer:       renderer,
		obs:            deps.Observability,
		tracer:         deps.Observability.Tracer("atsopt.api"),
		startedAt:      time.Now(),
		Logger:         logger,
	}

	s.optimizer = common.NewOptimizer(common.OptimizerDeps{
		Store:    deps.Store,
		Renderer: renderer,
		Options:  appCfg.Synthesis.ToOptions(),
		Metrics:  deps.Observability.Metrics(),
		Tracer:   deps.Observability.Tracer("atsopt.optimizer"),
		Logger:   logger,
	})

	return s
}
