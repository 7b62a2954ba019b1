package validator

import (
	"fmt"
	"strings"
)

// ValidationErrors represents a collection of validation errors.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string `json:"field"`           // Configuration key of the field
	Path    string `json:"path"`            // Dotted path relative to the validated record
	Tag     string `json:"tag"`             // Validation tag that failed
	Value   any    `json:"value,omitempty"` // Actual value that failed
	Param   string `json:"param,omitempty"` // Validation parameter
	Message string `json:"message"`         // Human-readable error message
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("validation failed: ")
	for i, fe := range v.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fe.Message)
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// Count returns the number of validation errors.
func (v *ValidationErrors) Count() int {
	if v == nil {
		return 0
	}
	return len(v.Errors)
}

// First returns the first error, or nil if there are none.
func (v *ValidationErrors) First() *FieldError {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}
	return &v.Errors[0]
}

// Messages returns all error messages as a slice.
func (v *ValidationErrors) Messages() []string {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}

	messages := make([]string, len(v.Errors))
	for i, fe := range v.Errors {
		messages[i] = fe.Message
	}
	return messages
}

// ByPath returns error messages grouped by path.
func (v *ValidationErrors) ByPath() map[string][]string {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}

	result := make(map[string][]string)
	for _, fe := range v.Errors {
		result[fe.Path] = append(result[fe.Path], fe.Message)
	}
	return result
}

// Format implements fmt.Formatter for custom formatting.
func (v *ValidationErrors) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			_, _ = fmt.Fprintf(f, "ValidationErrors(%d):\n", v.Count())
			for i, fe := range v.Errors {
				_, _ = fmt.Fprintf(f, "  [%d] %s: %s (tag=%s", i, fe.Path, fe.Message, fe.Tag)
				if fe.Param != "" {
					_, _ = fmt.Fprintf(f, ", param=%s", fe.Param)
				}
				_, _ = fmt.Fprint(f, ")\n")
			}
			return
		}
		_, _ = fmt.Fprint(f, v.Error())
	case 's':
		_, _ = fmt.Fprint(f, v.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", v.Error())
	}
}

// NewValidationError creates a new ValidationErrors with a single error.
func NewValidationError(path, tag, message string) *ValidationErrors {
	return &ValidationErrors{
		Errors: []FieldError{{Field: path, Path: path, Tag: tag, Message: message}},
	}
}
