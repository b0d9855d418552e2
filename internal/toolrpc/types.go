// Package toolrpc exposes the out-of-process Tool interface
// (spec.md §6's "execute(json_value) -> future<Result<json_value,
// ToolError>>") over gRPC, for tools heavy enough to run as a separate
// service rather than in-process. No protoc toolchain is available in
// this build, so the wire contract is hand-written against a
// grpc.ServiceDesc using google.golang.org/protobuf's compiled
// well-known Struct type instead of a generated schema, grounded on
// the teacher's own hand-written gRPC client
// (pkg/agent/llm_grpc.go) generalized from a fixed proto schema to a
// schema-free JSON-value payload.
package toolrpc

import "context"

// ErrorKind classifies a tool failure the way spec.md's Tool
// interface does.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindProvider    ErrorKind = "provider"
	ErrorKindInternal    ErrorKind = "internal"
)

// Error is the structured failure execute() returns; Retryable only
// carries meaning for ErrorKindProvider.
type Error struct {
	Kind      ErrorKind
	Message   string
	Retryable bool
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

// Tool is one out-of-process capability a job can invoke. Name,
// Description, and IsAvailable are static; Execute is the only
// blocking operation.
type Tool interface {
	Name() string
	Description() string
	IsAvailable() bool
	Execute(ctx context.Context, input map[string]any) (map[string]any, *Error)
}
