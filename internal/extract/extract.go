// Package extract turns uploaded resume documents into plain text.
package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"atsopt/internal/errors"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Source records where the resume text came from.
type Source string

const (
	SourceTyped Source = "typed"
	SourcePDF   Source = "pdf"
	SourceNone  Source = "none"
)

var pdfMagic = []byte("%PDF-")

// DecodeBase64 decodes a base64 payload that may carry a data URI prefix such as
// "data:application/pdf;base64,". Whitespace inside the payload is ignored.
func DecodeBase64(s string) ([]byte, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, errors.NewExtractionError(errors.ErrCodeInvalidBase64, "malformed data URI: missing ','", nil)
		}
		payload = payload[idx+1:]
	}
	payload = strings.Join(strings.Fields(payload), "")
	if payload == "" {
		return nil, errors.NewExtractionError(errors.ErrCodeInvalidBase64, "PDF payload is empty", nil)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, errors.NewExtractionError(errors.ErrCodeInvalidBase64, "PDF payload is not valid base64", err)
		}
		data = raw
	}
	return data, nil
}

// PDFText returns the plain text of every page, one page per line block.
// Line breaks are rebuilt from glyph positions so section headings stay on
// their own lines.
func PDFText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), pdfMagic) {
		return "", errors.NewExtractionError(errors.ErrCodePDFUnreadable, "uploaded file is not a PDF document", nil)
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.NewExtractionError(errors.ErrCodePDFUnreadable, "failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodePDFUnreadable, "failed to read PDF", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, pageLines(page.Content().Text))
	}

	text = strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", errors.NewExtractionError(errors.ErrCodeNoTextExtracted, "no extractable text found in PDF (scanned documents are not supported)", nil)
	}
	return text, nil
}

// pageLines joins positioned glyphs into text, starting a new line whenever the
// baseline moves and inserting a space where glyphs of one line leave a gap.
func pageLines(glyphs []pdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			switch {
			case math.Abs(g.Y-prev.Y) > baselineTolerance:
				b.WriteByte('\n')
			case g.X-(prev.X+prev.W) > wordGap(prev.FontSize) &&
				!strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " "):
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

const baselineTolerance = 1.0

func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 2
	}
	return fontSize * 0.25
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DocxText returns the text of a Word document with paragraph breaks kept.
func DocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeDocxUnreadable, "failed to parse DOCX", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllStringFunc(content, func(m string) string {
		if strings.HasPrefix(m, "<w:tab") {
			return "\t"
		}
		return "\n"
	})
	content = html.UnescapeString(xmlTag.ReplaceAllString(content, ""))

	text := strings.TrimSpace(content)
	if text == "" {
		return "", errors.NewExtractionError(errors.ErrCodeNoTextExtracted, "no text found in DOCX", nil)
	}
	return text, nil
}

// FileText reads a resume or job description from disk. PDF and DOCX files are
// extracted; anything else is read as UTF-8 text.
func FileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound, "file not found", err).WithContext("path", path)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read file", err).WithContext("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDFText(data)
	case ".docx":
		return DocxText(data)
	default:
		return string(data), nil
	}
}

// ResolveResume picks the resume text for a request. A non-empty typed resume
// always wins and the PDF is not decoded. Otherwise the PDF, when present, is
// decoded and extracted; failures are returned as extraction errors.
func ResolveResume(typed, pdfBase64 string) (string, Source, error) {
	if strings.TrimSpace(typed) != "" {
		return typed, SourceTyped, nil
	}
	if strings.TrimSpace(pdfBase64) == "" {
		return "", SourceNone, nil
	}

	data, err := DecodeBase64(pdfBase64)
	if err != nil {
		return "", SourcePDF, err
	}
	text, err := PDFText(data)
	if err != nil {
		return "", SourcePDF, err
	}
	return text, SourcePDF, nil
}
