package application

import (
	"fmt"
	"strings"
)

// ValidationError reports a required form field that was empty or blank.
// No network request is issued when validation fails.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is empty", e.Field)
}

// field pairs a form field name with its submitted value.
type field struct {
	name  string
	value string
}

// requireFields returns a ValidationError for the first field whose trimmed
// value is empty.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}
