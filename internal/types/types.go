package types

// OptimizeRequest is the JSON body accepted by the optimize endpoint
type OptimizeRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	PDFFile        string `json:"pdfFile,omitempty"` // base64, optional data-URI prefix
	GeneratePDF    bool   `json:"generatePdf,omitempty"`
	Name           string `json:"name,omitempty"`
}

// OptimizeInput is the request after PDF fallback and trimming
type OptimizeInput struct {
	Resume         string `validate:"required"`
	JobDescription string `validate:"required"`
	Name           string `validate:"max=200"`
	GeneratePDF    bool
}

// OptimizeResponse represents the result of optimizing a resume
type OptimizeResponse struct {
	MatchScore      int      `json:"matchScore"`
	Keywords        []string `json:"keywords"` // found skills, sorted
	Missing         []string `json:"missing"`  // missing skills, sorted
	Recommendation  string   `json:"recommendation"`
	OptimizedResume string   `json:"optimizedResume"`
	PDFSupport      bool     `json:"pdfSupport"`
	OptimizedPDF    *string  `json:"optimizedPdf"` // base64 or null
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	PDFSupport bool   `json:"pdfSupport"`
}

// KeywordSkill is one catalog entry as exposed to clients
type KeywordSkill struct {
	ID         string   `json:"id"`
	Display    string   `json:"display"`
	Variants   []string `json:"variants"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// KeywordRule is one normalization rule as exposed to clients
type KeywordRule struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// KeywordCatalog is the active keyword catalog as exposed to clients
type KeywordCatalog struct {
	Version  int            `json:"version"`
	Source   string         `json:"source"`
	LoadedAt string         `json:"loadedAt,omitempty"`
	Rules    []KeywordRule  `json:"normalization"`
	Skills   []KeywordSkill `json:"skills"`
}
