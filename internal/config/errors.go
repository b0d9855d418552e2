package config

import "fmt"

// ValidationError wraps a configuration defect with enough context to
// point a caller at the exact field, mirroring the teacher's
// component/field-scoped config error.
type ValidationError struct {
	Component string
	Field     string
	Err       error
}

func (e *ValidationError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("config: %s.%s: %v", e.Component, e.Field, e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(component, field string, err error) *ValidationError {
	return &ValidationError{Component: component, Field: field, Err: err}
}
