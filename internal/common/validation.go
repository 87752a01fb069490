package common

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"atsopt/internal/errors"
	"atsopt/internal/types"

	"github.com/go-playground/validator/v10"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// fieldNames maps struct fields to the JSON names clients send
var fieldNames = map[string]string{
	"Resume":         "resume",
	"JobDescription": "jobDescription",
	"Name":           "name",
}

// NewValidator returns a validator for request inputs.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// ValidateInput checks an optimize input after PDF fallback and trimming.
func ValidateInput(v *validator.Validate, in types.OptimizeInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewInternalError(errors.ErrCodeUnexpected, "input validation failed", err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fieldNames[fe.Field()])
		} else {
			invalid = append(invalid, fieldNames[fe.Field()])
		}
	}

	// absent fields are reported first, malformed ones only when nothing is missing
	if len(missing) > 0 {
		return errors.NewValidationError(errors.ErrCodeMissingField,
			describeMissing(missing), err).WithContext("fields", missing)
	}

	first := verrs[0]
	return errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("%s is invalid (%s)", fieldNames[first.Field()], first.Tag()), err).
		WithContext("fields", invalid)
}

func describeMissing(fields []string) string {
	switch len(fields) {
	case 1:
		return fmt.Sprintf("%s is required", fields[0])
	default:
		return fmt.Sprintf("%s are required", strings.Join(fields, " and "))
	}
}
