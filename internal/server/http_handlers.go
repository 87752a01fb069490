package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"atsopt/internal/errors"
	"atsopt/internal/types"
)

// healthHandler reports liveness and the PDF capability flag
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:     "healthy",
		Version:    s.Version,
		PDFSupport: s.optimizer.PDFSupported(),
	})
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	catalog := s.store.Snapshot()

	response := map[string]any{
		"service":        "atsopt",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"keywords": map[string]any{
			"version":   catalog.Version,
			"skills":    catalog.Size(),
			"source":    s.store.Source(),
			"loaded_at": s.store.LoadedAt().UTC().Format(time.RFC3339),
			"watching":  s.watcher != nil && s.watcher.IsRunning(),
		},
		"pdf": s.renderer.Stats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// keywordsHandler lists the catalog in effect
func (s *Server) keywordsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Describe())
}

// parseJSONRequest parses a JSON request body into v. Failures are
// validation errors; an oversized body carries the 413 status in its context.
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"content-type must be application/json", err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err).
				WithContext("status", http.StatusRequestEntityTooLarge)
		}
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}

	return nil
}

// statusFor returns the response status for an error returned while serving a request.
func statusFor(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := appErr.Context["status"].(int); ok {
		return status
	}
	return appErr.HTTPStatus()
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, types.ErrorResponse{
		Error:   error,
		Message: message,
	})
}
