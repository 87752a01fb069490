package server

import (
	"net/http"

	"atsopt/internal/errors"
	"atsopt/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// optimizeHandler serves POST /optimize
func (s *Server) optimizeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "api.optimize")
	defer span.End()

	requestID := requestIDFrom(ctx)
	span.SetAttributes(attribute.String("request.id", requestID))

	var req types.OptimizeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeRequestError(w, r, span, err)
		return
	}

	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.Resume)),
		attribute.Int("request.job_length", len(req.JobDescription)),
		attribute.Bool("request.pdf_upload", req.PDFFile != ""),
		attribute.Bool("request.generate_pdf", req.GeneratePDF),
	)

	outcome, err := s.optimizer.Run(ctx, req)
	if err != nil {
		s.writeRequestError(w, r, span, err)
		return
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("response.match_score", outcome.Response.MatchScore),
		attribute.Int("response.missing", len(outcome.Response.Missing)),
	)
	s.Logger.Info("Resume optimized",
		"request_id", requestID,
		"source", outcome.Source,
		"score", outcome.Response.MatchScore,
		"pdf", outcome.PDF != nil)

	writeJSON(w, http.StatusOK, outcome.Response)
}

// writeRequestError maps err onto a status code and error body. Client errors
// carry their message; anything else is reported as an internal failure.
func (s *Server) writeRequestError(w http.ResponseWriter, r *http.Request, span oteltrace.Span, err error) {
	status := statusFor(err)
	errorType := "internal"
	if appErr, ok := errors.As(err); ok {
		errorType = string(appErr.Type)
	}

	span.RecordError(err)
	span.SetAttributes(
		attribute.String("error.type", errorType),
		attribute.Int("http.status_code", status),
	)
	span.SetStatus(codes.Error, err.Error())

	logArgs := []any{
		"endpoint", r.URL.Path,
		"request_id", requestIDFrom(r.Context()),
		"status", status,
	}
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", logArgs...)
		writeErrorResponse(w, "Internal server error", err.Error(), status)
		return
	}

	s.Logger.Info("Request rejected", append(logArgs, "error", err.Error())...)
	writeErrorResponse(w, clientMessage(err), "", status)
}

// clientMessage returns the message of an AppError without its code and cause.
func clientMessage(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
