package common

import (
	"fmt"
	"os"
	"path/filepath"

	"atsopt/internal/errors"
	"atsopt/internal/extract"
	"atsopt/internal/utils"
)

// FileProcessor reads CLI input documents and writes outputs
type FileProcessor struct {
	maxFileSize int64
	logger      *errors.Logger
}

// NewFileProcessor creates a file processor. A maxFileSize of 0 disables the size check.
func NewFileProcessor(maxFileSize int64, logger *errors.Logger) *FileProcessor {
	if logger == nil {
		logger = errors.NopLogger()
	}
	return &FileProcessor{maxFileSize: maxFileSize, logger: logger}
}

// ReadDocument returns the text of a resume or job description file.
// PDF and DOCX files are extracted, anything else is read as text.
func (fp *FileProcessor) ReadDocument(filename string) (string, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return "", errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	if fp.maxFileSize > 0 {
		info, err := os.Stat(filename)
		if err == nil && info.Size() > fp.maxFileSize {
			return "", errors.NewValidationError("FILE_TOO_LARGE",
				fmt.Sprintf("File %s is %s, limit is %s", filename,
					utils.FormatFileSize(info.Size()), utils.FormatFileSize(fp.maxFileSize)), nil)
		}
	}

	if !utils.IsDocumentFile(filename) {
		fp.logger.Warn("File may not be a text document, reading it as text", "filename", filename)
	}

	return extract.FileText(filename)
}

// ValidateAndReadFiles reads several documents in order
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))
	for i, filename := range filenames {
		content, err := fp.ReadDocument(filename)
		if err != nil {
			return nil, err
		}
		contents[i] = content
	}
	return contents, nil
}

// WriteFile writes data to a file, creating parent directories
func (fp *FileProcessor) WriteFile(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
