package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "artmatch/internal/common/errors"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (vr *ValidationResult) add(field, code, format string, args ...interface{}) {
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
	vr.Valid = false
}

func (vr *ValidationResult) merge(prefix string, other *ValidationResult) {
	for _, e := range other.Errors {
		switch {
		case prefix == "":
		case e.Field == "":
			e.Field = prefix
		default:
			e.Field = prefix + "." + e.Field
		}
		vr.Errors = append(vr.Errors, e)
	}
	if !other.Valid {
		vr.Valid = false
	}
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// ValidateSchema checks a JSON document against a JSON Schema.
func ValidateSchema(schema string, document []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	vr := newResult()
	for _, e := range result.Errors() {
		field := e.Field()
		if field == "(root)" {
			field = ""
		}
		vr.add(field, strings.ToUpper(e.Type()), "%s", e.Description())
	}
	return vr, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		if err.Field == "" {
			messages[i] = err.Message
			continue
		}
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a field and everything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// ToError converts a failed result into an INVALID_MATCH_INPUT error. It
// returns nil for a valid result.
func (vr *ValidationResult) ToError() error {
	if vr == nil || vr.Valid {
		return nil
	}
	stdErr := apperrors.NewInvalidMatchInputError(strings.Join(vr.GetErrorMessages(), "; "))
	stdErr.Metadata = map[string]interface{}{"errors": vr.Errors}
	return stdErr
}
