package server

import (
	"fmt"
	"io"
	"os"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.writeServerInfo(os.Stdout)
}

func (s *Server) writeServerInfo(w io.Writer) {
	s.displayEndpoints(w)
	s.displayCatalogInfo(w)
	s.displayRequestLimitInfo(w)
	s.displayRateLimitInfo(w)
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health        - Health check")
	fmt.Fprintln(w, "  GET  /stats         - Server statistics")
	fmt.Fprintln(w, "  GET  /keywords      - Active keyword catalog")
	fmt.Fprintln(w, "  POST /optimize      - Match and optimize a resume")
	fmt.Fprintln(w, "  POST /api/optimize  - Alias of /optimize")
	if s.obs.MetricsHandler() != nil {
		settings := s.obs.Settings()
		fmt.Fprintf(w, "  GET  %s (port %s) - Prometheus metrics\n", settings.Prometheus.Endpoint, settings.Prometheus.Port)
	}
}

// displayCatalogInfo shows which keyword catalog is loaded
func (s *Server) displayCatalogInfo(w io.Writer) {
	km := s.store.Snapshot()
	fmt.Fprintf(w, "Keyword catalog: v%d, %d skills (%s)\n", km.Version, km.Size(), s.store.Source())
	if s.watcher != nil {
		fmt.Fprintln(w, "  - Reloading on file change")
	}
	if s.renderer.Supported() {
		fmt.Fprintln(w, "PDF generation: ENABLED")
	} else {
		fmt.Fprintln(w, "PDF generation: DISABLED")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo(w io.Writer) {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
		fmt.Fprintln(w, "WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo(w io.Writer) {
	if s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min per IP, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
	}
}
