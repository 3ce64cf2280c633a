package analyses

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-ats/internal/scoring"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// uploadFields are the form fields that accompany an uploaded résumé.
type uploadFields struct {
	JobDescription string `json:"job_description" validate:"required,min=10,max=10000"`
	AnalysisType   string `json:"analysis_type" validate:"omitempty,oneof=full quick keywords_only"`
}

// extractedResume bounds the text pulled out of an uploaded file.
type extractedResume struct {
	Text string `json:"resume" validate:"min=10,max=50000"`
}

// validateStruct runs struct tags and converts failures to a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Issue: issueFor(fe)})
	}
	return out
}

func issueFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid"
	}
}

// normalizeMode lowercases the requested mode and applies the default.
func normalizeMode(raw string) string {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		return scoring.ModeFull.String()
	}
	return mode
}
