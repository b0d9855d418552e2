// Package contracts defines the typed request, envelope, and artifact
// shapes shared across the orchestrator, plus their validators.
package contracts

import "fmt"

// ContractError is the structured diagnostic returned by every public
// validation operation. It is the wire envelope described in the
// external interface: a stable code, a safe message, the field paths
// it concerns, and optional machine-readable context.
type ContractError struct {
	Code       string
	Message    string
	FieldPaths []string
	Context    map[string]any
	cause      error
}

func (e *ContractError) Error() string {
	if len(e.FieldPaths) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.FieldPaths)
}

func (e *ContractError) Unwrap() error {
	return e.cause
}

// NewContractError builds a ContractError with no field paths or context.
func NewContractError(code, message string) *ContractError {
	return &ContractError{Code: code, Message: message}
}

// WithField returns a copy of the error with field paths attached.
func (e *ContractError) WithField(paths ...string) *ContractError {
	cp := *e
	cp.FieldPaths = paths
	return &cp
}

// WithContext returns a copy of the error with machine-readable context
// attached.
func (e *ContractError) WithContext(ctx map[string]any) *ContractError {
	cp := *e
	cp.Context = ctx
	return &cp
}

// WithCause returns a copy of the error wrapping an underlying cause.
func (e *ContractError) WithCause(cause error) *ContractError {
	cp := *e
	cp.cause = cause
	return &cp
}

func fieldErr(code, message, field string) *ContractError {
	return &ContractError{Code: code, Message: message, FieldPaths: []string{field}}
}
