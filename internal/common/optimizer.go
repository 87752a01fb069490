package common

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"atsopt/internal/ats"
	"atsopt/internal/errors"
	"atsopt/internal/extract"
	"atsopt/internal/keywords"
	"atsopt/internal/observability"
	"atsopt/internal/render"
	"atsopt/internal/types"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Optimizer runs one optimize request end to end: resume resolution,
// validation, matching, synthesis and optional PDF rendering.
type Optimizer struct {
	store    *keywords.Store
	renderer *render.Renderer
	options  ats.Options
	validate *validator.Validate
	metrics  *observability.Metrics
	tracer   oteltrace.Tracer
	logger   *errors.Logger
}

// OptimizerDeps collects what NewOptimizer needs. Renderer, Metrics and Tracer may be nil.
type OptimizerDeps struct {
	Store    *keywords.Store
	Renderer *render.Renderer
	Options  ats.Options
	Metrics  *observability.Metrics
	Tracer   oteltrace.Tracer
	Logger   *errors.Logger
}

// NewOptimizer creates an Optimizer.
func NewOptimizer(deps OptimizerDeps) *Optimizer {
	o := &Optimizer{
		store:    deps.Store,
		renderer: deps.Renderer,
		options:  deps.Options,
		validate: NewValidator(),
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
		logger:   deps.Logger,
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("atsopt.optimizer")
	}
	if o.logger == nil {
		o.logger = errors.NopLogger()
	}
	return o
}

// PDFSupported reports whether optimized PDFs can be generated.
func (o *Optimizer) PDFSupported() bool {
	return o.renderer.Supported()
}

// Outcome is the response plus the raw PDF bytes, if any were rendered.
type Outcome struct {
	Response types.OptimizeResponse
	PDF      []byte
	Source   extract.Source
}

// Run processes req. Returned errors are AppErrors of type validation or
// extraction; a failed render only leaves OptimizedPDF nil.
func (o *Optimizer) Run(ctx context.Context, req types.OptimizeRequest) (*Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "optimize")
	defer span.End()

	start := time.Now()
	outcome, err := o.run(ctx, span, req)

	record := observability.OptimizationRecord{
		PDF:      req.GeneratePDF,
		Duration: time.Since(start),
		Err:      err,
	}
	if outcome != nil {
		record.Source = string(outcome.Source)
		record.Score = outcome.Response.MatchScore
		record.Missing = len(outcome.Response.Missing)
	}
	o.metrics.RecordOptimization(ctx, record)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return outcome, nil
}

func (o *Optimizer) run(ctx context.Context, span oteltrace.Span, req types.OptimizeRequest) (*Outcome, error) {
	resume, source, err := extract.ResolveResume(req.Resume, req.PDFFile)
	if source == extract.SourcePDF {
		o.metrics.RecordExtraction(ctx, "pdf", base64.StdEncoding.DecodedLen(len(req.PDFFile)), err)
	}
	if err != nil {
		return nil, err
	}

	input := types.OptimizeInput{
		Resume:         strings.TrimSpace(resume),
		JobDescription: strings.TrimSpace(req.JobDescription),
		Name:           strings.TrimSpace(req.Name),
		GeneratePDF:    req.GeneratePDF,
	}
	if err := ValidateInput(o.validate, input); err != nil {
		return nil, err
	}

	// one snapshot for the whole request
	km := o.store.Snapshot()
	result := ats.Optimize(ats.Input{
		Resume:         input.Resume,
		JobDescription: input.JobDescription,
		Name:           input.Name,
	}, km, o.options)

	span.SetAttributes(
		attribute.String("resume.source", string(source)),
		attribute.Int("resume.length", len(input.Resume)),
		attribute.Int("job.length", len(input.JobDescription)),
		attribute.Int("match.score", result.Match.Score),
		attribute.Int("match.required", len(result.Match.Required)),
		attribute.Int("catalog.version", km.Version),
	)

	outcome := &Outcome{
		Response: BuildResponse(result, o.PDFSupported()),
		Source:   source,
	}

	if input.GeneratePDF && o.PDFSupported() {
		pdf, err := o.renderer.Render(ctx, result.Document.Lines, input.Name)
		o.metrics.RecordRender(ctx, len(pdf), err)
		if err != nil {
			o.logger.LogError(err, "PDF generation failed, returning text only")
			span.SetAttributes(attribute.Bool("pdf.generated", false))
		} else {
			encoded := base64.StdEncoding.EncodeToString(pdf)
			outcome.Response.OptimizedPDF = &encoded
			outcome.PDF = pdf
			span.SetAttributes(attribute.Bool("pdf.generated", true))
		}
	}

	o.logger.Debug("Resume optimized",
		"source", source,
		"score", result.Match.Score,
		"found", len(result.Match.Found),
		"missing", len(result.Match.Missing),
		"pdf", outcome.PDF != nil)

	return outcome, nil
}

// BuildResponse maps an optimizer result onto the API response.
func BuildResponse(result ats.Result, pdfSupport bool) types.OptimizeResponse {
	return types.OptimizeResponse{
		MatchScore:      result.Match.Score,
		Keywords:        result.Match.Found,
		Missing:         result.Match.Missing,
		Recommendation:  result.Recommendation,
		OptimizedResume: result.Document.String(),
		PDFSupport:      pdfSupport,
	}
}
