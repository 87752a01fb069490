package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

type requestIDKey struct{}

const maxRequestIDLength = 128

// Handler returns the full middleware chain around the API routes.
func (s *Server) Handler() http.Handler {
	mux := s.setupRoutes()

	var handler http.Handler = s.corsMiddleware(mux)
	handler = s.requestIDMiddleware(handler)
	handler = s.recoverMiddleware(handler)
	return s.obs.HTTPMiddleware()(handler)
}

// setupRoutes configures all HTTP routes and per-route middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.rateLimitMiddleware(s.requestSizeLimitMiddleware(h))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("GET /keywords", s.keywordsHandler)
	mux.HandleFunc("POST /optimize", api(s.optimizeHandler))
	mux.HandleFunc("POST /api/optimize", api(s.optimizeHandler))

	return mux
}

// recoverMiddleware turns a handler panic into a 500 response.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.Logger.LogError(fmt.Errorf("panic: %v", rec), "Recovered from handler panic",
				"endpoint", r.URL.Path,
				"request_id", requestIDFrom(r.Context()),
				"stack", string(debug.Stack()))
			writeErrorResponse(w, "Internal server error", "unexpected failure while processing the request", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID, reusing a sane incoming
// X-Request-ID and generating one otherwise.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r)
	}) < 0
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// corsMiddleware adds the configured CORS headers to every response and
// answers preflight requests with 204.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	cors := s.AppConfig.Server.CORS
	methods := strings.Join(cors.AllowedMethods, ", ")
	headers := strings.Join(cors.AllowedHeaders, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if origin := allowedOrigin(cors.AllowedOrigins, r.Header.Get("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if methods != "" {
			h.Set("Access-Control-Allow-Methods", methods)
		}
		if headers != "" {
			h.Set("Access-Control-Allow-Headers", headers)
		}

		if r.Method == http.MethodOptions {
			if cors.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(cors.MaxAge))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowedOrigin returns the Access-Control-Allow-Origin value for a request
// origin, or "" when the origin is not allowed.
func allowedOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(a, origin) {
			return origin
		}
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MaxRequestSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		}

		next(w, r)
	}
}
