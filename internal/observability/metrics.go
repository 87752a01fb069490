package observability

import (
	"context"
	"fmt"
	"time"

	"atsopt/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the custom instruments. The zero value records nothing.
type Metrics struct {
	Optimizations     metric.Int64Counter
	MatchScore        metric.Int64Histogram
	MissingSkills     metric.Int64Histogram
	ProcessingTime    metric.Float64Histogram
	PDFExtractions    metric.Int64Counter
	PDFRenders        metric.Int64Counter
	DocumentSize      metric.Int64Histogram
	RateLimitHits     metric.Int64Counter
	KeywordReloads    metric.Int64Counter
	KeywordCatalogLen metric.Int64Gauge

	flags config.CustomMetricsConfig
}

func newMetrics(meter metric.Meter, flags config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{flags: flags}
	var err error

	if m.Optimizations, err = meter.Int64Counter(
		"atsopt_optimizations_total",
		metric.WithDescription("Total number of optimization requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create optimizations metric: %w", err)
	}

	if m.MatchScore, err = meter.Int64Histogram(
		"atsopt_match_score",
		metric.WithDescription("Distribution of match scores"),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create match score metric: %w", err)
	}

	if m.MissingSkills, err = meter.Int64Histogram(
		"atsopt_missing_skills",
		metric.WithDescription("Number of required skills missing from the resume"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 8, 13, 21),
	); err != nil {
		return nil, fmt.Errorf("failed to create missing skills metric: %w", err)
	}

	if m.ProcessingTime, err = meter.Float64Histogram(
		"atsopt_processing_duration_seconds",
		metric.WithDescription("Time spent optimizing a resume, extraction and rendering included"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processing time metric: %w", err)
	}

	if m.PDFExtractions, err = meter.Int64Counter(
		"atsopt_pdf_extractions_total",
		metric.WithDescription("Total number of resume text extractions from uploaded documents"),
	); err != nil {
		return nil, fmt.Errorf("failed to create extraction metric: %w", err)
	}

	if m.PDFRenders, err = meter.Int64Counter(
		"atsopt_pdf_renders_total",
		metric.WithDescription("Total number of optimized resume PDF renders"),
	); err != nil {
		return nil, fmt.Errorf("failed to create render metric: %w", err)
	}

	if m.DocumentSize, err = meter.Int64Histogram(
		"atsopt_document_size_bytes",
		metric.WithDescription("Size of uploaded and generated documents"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create document size metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"atsopt_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	if m.KeywordReloads, err = meter.Int64Counter(
		"atsopt_keyword_reloads_total",
		metric.WithDescription("Total number of keyword catalog reload attempts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create keyword reload metric: %w", err)
	}

	if m.KeywordCatalogLen, err = meter.Int64Gauge(
		"atsopt_keyword_catalog_skills",
		metric.WithDescription("Number of skills in the active keyword catalog"),
	); err != nil {
		return nil, fmt.Errorf("failed to create catalog size metric: %w", err)
	}

	return m, nil
}

// OptimizationRecord describes one completed optimization request.
type OptimizationRecord struct {
	Source   string // typed, pdf
	Score    int
	Missing  int
	PDF      bool
	Duration time.Duration
	Err      error
}

// RecordOptimization records the outcome of an optimization request.
func (m *Metrics) RecordOptimization(ctx context.Context, r OptimizationRecord) {
	if m == nil || m.Optimizations == nil || !m.flags.Optimizer.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("source", r.Source),
		attribute.Bool("pdf_requested", r.PDF),
		attribute.Bool("success", r.Err == nil),
	)
	m.Optimizations.Add(ctx, 1, attrs)

	if m.flags.Optimizer.TrackDuration {
		m.ProcessingTime.Record(ctx, r.Duration.Seconds(), attrs)
	}
	if r.Err != nil {
		return
	}
	if m.flags.Optimizer.TrackScores {
		m.MatchScore.Record(ctx, int64(r.Score))
	}
	if m.flags.Optimizer.TrackMissingLen {
		m.MissingSkills.Record(ctx, int64(r.Missing))
	}
}

// RecordExtraction records a text extraction from an uploaded document.
func (m *Metrics) RecordExtraction(ctx context.Context, format string, size int, err error) {
	if m == nil || m.PDFExtractions == nil || !m.flags.Documents.Enabled || !m.flags.Documents.TrackExtractions {
		return
	}
	m.PDFExtractions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("format", format),
		attribute.Bool("success", err == nil),
	))
	if m.flags.Documents.TrackContentSizes && size > 0 {
		m.DocumentSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String("direction", "in")))
	}
}

// RecordRender records a PDF render attempt.
func (m *Metrics) RecordRender(ctx context.Context, size int, err error) {
	if m == nil || m.PDFRenders == nil || !m.flags.Documents.Enabled || !m.flags.Documents.TrackRenders {
		return
	}
	m.PDFRenders.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
	if m.flags.Documents.TrackContentSizes && size > 0 {
		m.DocumentSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String("direction", "out")))
	}
}

// RecordRateLimitHit records a rejected request.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, path string) {
	if m == nil || m.RateLimitHits == nil || !m.flags.Infrastructure.Enabled || !m.flags.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
}

// RecordKeywordReload records a catalog reload and the resulting catalog size.
func (m *Metrics) RecordKeywordReload(ctx context.Context, skills int, err error) {
	if m == nil || m.KeywordReloads == nil || !m.flags.Infrastructure.Enabled || !m.flags.Infrastructure.TrackReloads {
		return
	}
	m.KeywordReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
	if err == nil {
		m.RecordKeywordCatalog(ctx, skills)
	}
}

// RecordKeywordCatalog records the size of the catalog currently serving requests.
func (m *Metrics) RecordKeywordCatalog(ctx context.Context, skills int) {
	if m == nil || m.KeywordCatalogLen == nil || !m.flags.Infrastructure.Enabled {
		return
	}
	m.KeywordCatalogLen.Record(ctx, int64(skills))
}
