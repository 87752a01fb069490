package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"atsopt/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry is the registry used by the CLI
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "OptimizeResponse", &OptimizeTextFormatter{})
	registry.RegisterFormatter("markdown", "OptimizeResponse", &OptimizeMarkdownFormatter{})
	registry.RegisterFormatter("text", "KeywordCatalog", &CatalogTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordCatalog", &CatalogMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.OptimizeResponse, *types.OptimizeResponse:
		return "OptimizeResponse"
	case types.KeywordCatalog, *types.KeywordCatalog:
		return "KeywordCatalog"
	default:
		return "any"
	}
}

func asOptimizeResponse(data any) (types.OptimizeResponse, error) {
	switch v := data.(type) {
	case types.OptimizeResponse:
		return v, nil
	case *types.OptimizeResponse:
		return *v, nil
	}
	return types.OptimizeResponse{}, fmt.Errorf("expected OptimizeResponse, got %T", data)
}

func asKeywordCatalog(data any) (types.KeywordCatalog, error) {
	switch v := data.(type) {
	case types.KeywordCatalog:
		return v, nil
	case *types.KeywordCatalog:
		return *v, nil
	}
	return types.KeywordCatalog{}, fmt.Errorf("expected KeywordCatalog, got %T", data)
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// OptimizeTextFormatter renders an optimization result as plain text
type OptimizeTextFormatter struct{}

func (f *OptimizeTextFormatter) Format(data any) (string, error) {
	result, err := asOptimizeResponse(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("=== MATCH ===\n")
	fmt.Fprintf(&b, "Score: %d%%\n", result.MatchScore)
	fmt.Fprintf(&b, "Matched: %s\n", listOrNone(result.Keywords))
	fmt.Fprintf(&b, "Missing: %s\n", listOrNone(result.Missing))
	fmt.Fprintf(&b, "Recommendation: %s\n\n", result.Recommendation)

	b.WriteString("=== OPTIMIZED RESUME ===\n\n")
	b.WriteString(result.OptimizedResume)
	b.WriteString("\n")

	if result.OptimizedPDF != nil {
		b.WriteString("\nPDF: generated\n")
	}
	return b.String(), nil
}

func (f *OptimizeTextFormatter) SupportedType() string {
	return "OptimizeResponse"
}

// OptimizeMarkdownFormatter renders an optimization result as Markdown
type OptimizeMarkdownFormatter struct{}

func (f *OptimizeMarkdownFormatter) Format(data any) (string, error) {
	result, err := asOptimizeResponse(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Resume Optimization\n\n")
	fmt.Fprintf(&b, "**Match score:** %d%%\n\n", result.MatchScore)
	fmt.Fprintf(&b, "> %s\n\n", result.Recommendation)

	b.WriteString("## Keywords\n\n")
	b.WriteString("| Skill | Status |\n|---|---|\n")
	for _, k := range result.Keywords {
		fmt.Fprintf(&b, "| %s | matched |\n", k)
	}
	for _, k := range result.Missing {
		fmt.Fprintf(&b, "| %s | missing |\n", k)
	}

	b.WriteString("\n## Optimized Resume\n\n```text\n")
	b.WriteString(result.OptimizedResume)
	b.WriteString("\n```\n")
	return b.String(), nil
}

func (f *OptimizeMarkdownFormatter) SupportedType() string {
	return "OptimizeResponse"
}

// CatalogTextFormatter lists the keyword catalog as plain text
type CatalogTextFormatter struct{}

func (f *CatalogTextFormatter) Format(data any) (string, error) {
	catalog, err := asKeywordCatalog(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Keyword catalog v%d (%s), %d skills\n\n", catalog.Version, catalog.Source, len(catalog.Skills))
	b.WriteString("Normalization:\n")
	for _, r := range catalog.Rules {
		fmt.Fprintf(&b, "  %s -> %s\n", r.From, r.To)
	}
	b.WriteString("\nSkills:\n")
	for _, s := range catalog.Skills {
		fmt.Fprintf(&b, "  %-22s %s\n", s.ID, strings.Join(s.Variants, ", "))
	}
	return b.String(), nil
}

func (f *CatalogTextFormatter) SupportedType() string {
	return "KeywordCatalog"
}

// CatalogMarkdownFormatter lists the keyword catalog as a Markdown table
type CatalogMarkdownFormatter struct{}

func (f *CatalogMarkdownFormatter) Format(data any) (string, error) {
	catalog, err := asKeywordCatalog(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Keyword Catalog v%d\n\n", catalog.Version)
	fmt.Fprintf(&b, "Source: `%s`\n\n", catalog.Source)
	b.WriteString("| ID | Display | Variants | Suggestion |\n|---|---|---|---|\n")
	for _, s := range catalog.Skills {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.ID, s.Display, strings.Join(s.Variants, ", "), s.Suggestion)
	}
	return b.String(), nil
}

func (f *CatalogMarkdownFormatter) SupportedType() string {
	return "KeywordCatalog"
}
