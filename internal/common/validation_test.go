package common

import (
	"strings"
	"testing"

	"atsopt/internal/errors"
	"atsopt/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	formats := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   string
	}{
		{name: "json", format: "json", supported: formats},
		{name: "text", format: "text", supported: formats},
		{name: "markdown", format: "markdown", supported: formats},
		{name: "xml", format: "xml", supported: formats,
			wantErr: "unsupported output format 'xml'. Supported formats: [json text markdown]"},
		{name: "case sensitive", format: "JSON", supported: formats,
			wantErr: "unsupported output format 'JSON'. Supported formats: [json text markdown]"},
		{name: "empty format", format: "", supported: formats,
			wantErr: "unsupported output format ''. Supported formats: [json text markdown]"},
		{name: "no restrictions", format: "pdf", supported: nil},
		{name: "narrowed list", format: "markdown", supported: []string{"json"},
			wantErr: "unsupported output format 'markdown'. Supported formats: [json]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateInput(t *testing.T) {
	v := NewValidator()

	require.NoError(t, ValidateInput(v, types.OptimizeInput{Resume: "r", JobDescription: "j"}))

	tests := []struct {
		name    string
		in      types.OptimizeInput
		code    string
		message string
		fields  []string
	}{
		{
			name:    "both missing",
			in:      types.OptimizeInput{},
			code:    errors.ErrCodeMissingField,
			message: "resume and jobDescription are required",
			fields:  []string{"resume", "jobDescription"},
		},
		{
			name:    "job description missing",
			in:      types.OptimizeInput{Resume: "r"},
			code:    errors.ErrCodeMissingField,
			message: "jobDescription is required",
			fields:  []string{"jobDescription"},
		},
		{
			name:    "missing resume with an overlong name",
			in:      types.OptimizeInput{JobDescription: "j", Name: strings.Repeat("n", 201)},
			code:    errors.ErrCodeMissingField,
			message: "resume is required",
			fields:  []string{"resume"},
		},
		{
			name:    "name too long",
			in:      types.OptimizeInput{Resume: "r", JobDescription: "j", Name: strings.Repeat("n", 201)},
			code:    errors.ErrCodeInvalidRequest,
			message: "name is invalid (max)",
			fields:  []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(v, tt.in)
			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, tt.fields, appErr.Context["fields"])
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	formats := []string{"json", "text", "markdown"}
	for b.Loop() {
		_ = ValidateOutputFormat("markdown", formats)
	}
}
