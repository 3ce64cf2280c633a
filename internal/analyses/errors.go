package analyses

import (
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrTooLarge       = errors.New("file too large")
)

// Error codes returned in the HTTP error envelope.
const (
	ErrorCodeValidation       = "validation_error"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeAnalysisFailed   = "analysis_failed"
	ErrorCodeUnsupportedMedia = "unsupported_media_type"
	ErrorCodePayloadTooLarge  = "payload_too_large"
	ErrorCodeInternal         = "internal"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Issue)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, issue string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Issue: issue}}}
}
