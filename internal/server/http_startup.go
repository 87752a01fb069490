package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atsopt/internal/keywords"
)

const shutdownTimeout = 30 * time.Second

// Start starts the HTTP server with all configured components and blocks
// until SIGINT or SIGTERM.
func (s *Server) Start() error {
	if err := s.obs.StartMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.recordKeywordCatalog()
	if err := s.startKeywordWatcher(); err != nil {
		return err
	}

	httpServer := s.setupHTTPServer()

	if err := s.configureTLS(httpServer); err != nil {
		s.stopKeywordWatcher()
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer)
}

// startKeywordWatcher reloads the catalog file on change when configured to.
func (s *Server) startKeywordWatcher() error {
	kw := s.AppConfig.Keywords
	if !kw.Watch || kw.File == "" || kw.Content != "" {
		return nil
	}

	s.watcher = keywords.NewWatcher(kw.File, s.store, kw.DebounceDelay, s.onKeywordReload, s.Logger)
	if err := s.watcher.Start(); err != nil {
		s.watcher = nil
		return fmt.Errorf("failed to watch keyword catalog: %w", err)
	}
	return nil
}

// recordKeywordCatalog publishes the size of the catalog loaded at startup.
// Reloads update it through onKeywordReload.
func (s *Server) recordKeywordCatalog() {
	s.obs.Metrics().RecordKeywordCatalog(context.Background(), s.store.Snapshot().Size())
}

func (s *Server) onKeywordReload(err error) {
	s.obs.Metrics().RecordKeywordReload(context.Background(), s.store.Snapshot().Size(), err)
}

func (s *Server) stopKeywordWatcher() {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Stop(); err != nil {
		s.Logger.LogError(err, "Failed to stop keyword watcher")
	}
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// certificates are already loaded into TLSConfig
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.stopKeywordWatcher()
		s.cleanupRateLimiter()
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.stopKeywordWatcher()
	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
