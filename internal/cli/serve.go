package cli

import (
	"context"
	"fmt"
	"time"

	"atsopt/internal/config"
	"atsopt/internal/errors"
	"atsopt/internal/observability"
	"atsopt/internal/render"
	"atsopt/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server that exposes resume optimization as a JSON API.

Available endpoints:
- POST /optimize (alias POST /api/optimize): match and optimize a resume
- GET /health: health check and PDF capability
- GET /stats: rate limiter, keyword catalog and PDF renderer state
- GET /keywords: the active skill catalog

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().String("host", "", "Host to bind to (default from config)")
	cmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	cmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	cmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	cmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	return cmd
}

// applyServeFlags copies explicitly set flags over the loaded configuration.
// A certificate file given on the command line replaces content from Vault.
func applyServeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, apply func(string)) {
		if !flags.Changed(name) {
			return
		}
		if v, err := flags.GetString(name); err == nil {
			apply(v)
		}
	}

	tls := &cfg.Server.TLS
	set("port", func(v string) { cfg.Server.Port = v })
	set("host", func(v string) { cfg.Server.Host = v })
	set("tls-mode", func(v string) { tls.Mode = v })
	set("cert-file", func(v string) { tls.CertFile, tls.CertContent = v, "" })
	set("key-file", func(v string) { tls.KeyFile, tls.KeyContent = v, "" })
	set("ca-file", func(v string) { tls.CAFile, tls.CAContent = v, "" })
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	store, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}

	applyServeFlags(cmd.Flags(), cfg)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	obs, err := observability.NewManager(cfg.Observability, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer shutdownObservability(obs, logger)

	srv := server.NewServer(cfg, Version, server.Deps{
		Store:         store,
		Renderer:      render.New(cfg.PDF, logger),
		Observability: obs,
		Logger:        logger,
	})
	return srv.Start()
}

func shutdownObservability(obs *observability.Manager, logger *errors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := obs.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shutdown observability")
	}
}
