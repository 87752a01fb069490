// Package render lays out an optimized resume document as a PDF.
package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"atsopt/internal/config"
	"atsopt/internal/errors"

	"github.com/go-pdf/fpdf"
	"github.com/sony/gobreaker/v2"
)

const (
	lineHeight   = 5.5
	headingSize  = 12.5
	blankSpacing = 3.0
	bulletIndent = 5.0
	pageMargin   = 18.0
)

// Renderer produces PDF bytes from document lines.
type Renderer struct {
	cfg     config.PDFConfig
	breaker *Breaker
	logger  *errors.Logger

	now   func() time.Time
	build func(lines []string, title string) ([]byte, error)
}

// New creates a Renderer. A disabled configuration yields a Renderer whose
// Supported method returns false and whose Render always fails.
func New(cfg config.PDFConfig, logger *errors.Logger) *Renderer {
	if cfg.PageSize == "" {
		cfg.PageSize = "A4"
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = "Helvetica"
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 10.5
	}
	if cfg.HeadingMaxLength <= 0 {
		cfg.HeadingMaxLength = DefaultHeadingMaxLength
	}

	r := &Renderer{
		cfg:     cfg,
		breaker: NewBreaker(cfg.CircuitBreaker, logger),
		logger:  logger,
		now:     time.Now,
	}
	r.build = r.buildPDF
	return r
}

// Supported is the PDF capability flag reported to clients.
func (r *Renderer) Supported() bool {
	return r != nil && r.cfg.Enabled
}

// Render lays out lines as a PDF titled title.
func (r *Renderer) Render(ctx context.Context, lines []string, title string) ([]byte, error) {
	if !r.Supported() {
		return nil, errors.NewRenderError(errors.ErrCodeRenderUnavailable, "PDF generation is disabled", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "PDF generation cancelled", err)
	}

	out, err := r.breaker.Execute(func() ([]byte, error) {
		return r.build(lines, title)
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.NewRenderError(errors.ErrCodeRenderUnavailable, "PDF generation temporarily unavailable", err)
		}
		if appErr, ok := errors.As(err); ok {
			return nil, appErr
		}
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "PDF generation failed", err)
	}
	return out, nil
}

// Stats exposes the breaker state.
func (r *Renderer) Stats() map[string]any {
	stats := r.breaker.GetStats()
	stats["supported"] = r.Supported()
	stats["healthy"] = r.breaker.IsHealthy()
	return stats
}

func (r *Renderer) buildPDF(lines []string, title string) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = errors.NewRenderError(errors.ErrCodeRenderFailed, "PDF layout panicked", fmt.Errorf("%v", rec))
		}
	}()

	pdf := fpdf.New("P", "mm", r.cfg.PageSize, "")
	if title == "" {
		title = "Optimized Resume"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("atsopt", true)
	pdf.SetCreationDate(r.now())
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	family := r.cfg.FontFamily
	size := r.cfg.FontSize

	for _, line := range lines {
		switch ClassifyLine(line, r.cfg.HeadingMaxLength) {
		case KindSeparator:
			continue
		case KindBlank:
			pdf.Ln(blankSpacing)
		case KindHeading:
			pdf.SetFont(family, "B", headingSize)
			pdf.MultiCell(0, lineHeight+1, tr(line), "", "L", false)
			left, _, right, _ := pdf.GetMargins()
			width, _ := pdf.GetPageSize()
			y := pdf.GetY()
			pdf.Line(left, y, width-right, y)
			pdf.Ln(1)
		case KindBullet:
			pdf.SetFont(family, "", size)
			left, _, _, _ := pdf.GetMargins()
			pdf.SetX(left + bulletIndent)
			pdf.MultiCell(0, lineHeight, tr("• "+bulletText(line)), "", "L", false)
		default:
			pdf.SetFont(family, "", size)
			pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
		}
		if pdf.Err() {
			return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "PDF layout failed", pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "failed to write PDF", err)
	}
	return buf.Bytes(), nil
}
