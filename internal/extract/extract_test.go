package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atsopt/internal/errors"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64(t *testing.T) {
	want := []byte("%PDF-1.4 fake")
	encoded := base64.StdEncoding.EncodeToString(want)

	tests := []struct {
		name  string
		input string
	}{
		{"plain", encoded},
		{"data uri", "data:application/pdf;base64," + encoded},
		{"surrounding whitespace", "  \n" + encoded + "\n"},
		{"wrapped lines", encoded[:8] + "\n" + encoded[8:]},
		{"unpadded", base64.RawStdEncoding.EncodeToString(want)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeBase64Errors(t *testing.T) {
	for _, input := range []string{"", "   ", "data:application/pdf;base64", "data:application/pdf;base64,", "not base64 at all!"} {
		_, err := DecodeBase64(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction), "input %q", input)
	}
}

func TestPDFTextRejectsNonPDF(t *testing.T) {
	_, err := PDFText([]byte("hello world"))
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePDFUnreadable, appErr.Code)
}

func TestPDFTextCorruptDocument(t *testing.T) {
	_, err := PDFText([]byte("%PDF-1.7\nthis is not really a pdf"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxText(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Skills &amp; Tools</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Python</w:t><w:tab/><w:t>SQL</w:t></w:r></w:p>`)

	text, err := DocxText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe\n")
	assert.Contains(t, text, "Skills & Tools\n")
	assert.Contains(t, text, "Python\tSQL")
	assert.NotContains(t, text, "<w:")
}

func TestDocxTextInvalid(t *testing.T) {
	_, err := DocxText([]byte("definitely not a zip"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))
}

func TestFileText(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Jane Doe\nPython"), 0o600))
	text, err := FileText(txt)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nPython", text)

	docxPath := filepath.Join(dir, "resume.DOCX")
	require.NoError(t, os.WriteFile(docxPath, buildDocx(t, `<w:p><w:r><w:t>From Word</w:t></w:r></w:p>`), 0o600))
	text, err = FileText(docxPath)
	require.NoError(t, err)
	assert.Contains(t, text, "From Word")

	pdfPath := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("plain text with a pdf name"), 0o600))
	_, err = FileText(pdfPath)
	assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))

	_, err = FileText(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}

func TestResolveResume(t *testing.T) {
	t.Run("typed resume wins over pdf", func(t *testing.T) {
		text, source, err := ResolveResume("Typed resume", "!!!garbage!!!")
		require.NoError(t, err)
		assert.Equal(t, "Typed resume", text)
		assert.Equal(t, SourceTyped, source)
	})

	t.Run("nothing supplied", func(t *testing.T) {
		text, source, err := ResolveResume("  ", "")
		require.NoError(t, err)
		assert.Empty(t, text)
		assert.Equal(t, SourceNone, source)
	})

	t.Run("bad base64 without typed fallback", func(t *testing.T) {
		_, source, err := ResolveResume("", "!!!garbage!!!")
		require.Error(t, err)
		assert.Equal(t, SourcePDF, source)
		assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))
	})

	t.Run("decodable but not a pdf", func(t *testing.T) {
		payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))
		_, _, err := ResolveResume("", payload)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeExtraction))
	})
}

func buildPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.Cell(0, 8, line)
		doc.Ln(8)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestPDFTextKeepsLineBreaks(t *testing.T) {
	lines := []string{"Jane Doe", "SKILLS", "Python, SQL", "EXPERIENCE", "Engineer at Acme"}
	data := buildPDF(t, lines...)

	text, err := PDFText(data)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, "\n"), text)

	payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)
	resolved, source, err := ResolveResume("", payload)
	require.NoError(t, err)
	assert.Equal(t, SourcePDF, source)
	assert.Equal(t, lines, strings.Split(resolved, "\n"))
}

func TestPageLines(t *testing.T) {
	glyphs := []pdf.Text{
		{S: "S", X: 10, Y: 700, W: 7, FontSize: 12},
		{S: "QL", X: 17, Y: 700, W: 14, FontSize: 12},
		// next word placed without a space glyph
		{S: "AWS", X: 40, Y: 700, W: 20, FontSize: 12},
		{S: "EXPERIENCE ", X: 10, Y: 686, W: 60, FontSize: 12},
		{S: "Acme", X: 10, Y: 672.5, W: 25, FontSize: 12},
		// same baseline within rounding
		{S: "Corp", X: 40, Y: 672.2, W: 25, FontSize: 12},
	}
	assert.Equal(t, "SQL AWS\nEXPERIENCE\nAcme Corp", pageLines(glyphs))
	assert.Empty(t, pageLines(nil))
}
