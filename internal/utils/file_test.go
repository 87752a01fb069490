package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	assert.NoError(t, ValidateInputFile(file))
	assert.ErrorContains(t, ValidateInputFile(""), "filename cannot be empty")
	assert.ErrorContains(t, ValidateInputFile(filepath.Join(dir, "nope.txt")), "file does not exist")
	assert.ErrorContains(t, ValidateInputFile(dir), "path is a directory")
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, ValidateOutputFile(""))
	assert.NoError(t, ValidateOutputFile("result.json"))

	nested := filepath.Join(dir, "a", "b", "result.json")
	require.NoError(t, ValidateOutputFile(nested))
	info, err := os.Stat(filepath.Dir(nested))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	assert.ErrorContains(t, ValidateOutputFile(filepath.Join(file, "result.json")), "not a directory")
}

func TestFileKinds(t *testing.T) {
	tests := []struct {
		name     string
		text     bool
		document bool
	}{
		{"resume.txt", true, true},
		{"README.MD", true, true},
		{"resume.PDF", false, true},
		{"resume.docx", false, true},
		{"resume.doc", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, IsTextFile(tt.name))
			assert.Equal(t, tt.document, IsDocumentFile(tt.name))
		})
	}
	assert.Equal(t, ".pdf", GetFileExtension("a/b/Resume.PDF"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "5.0 MB", FormatFileSize(5*1024*1024))
}
