package toolrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server dispatches Execute calls to a fixed registry of tools by
// name, mirroring the job manager's "wrap any execute(Input) ->
// Result<Output> callable" framing at the RPC boundary.
type Server struct {
	tools map[string]Tool
}

// NewServer builds a Server from the tools it should expose, keyed by
// their own Name().
func NewServer(tools ...Tool) *Server {
	s := &Server{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		s.tools[t.Name()] = t
	}
	return s
}

var _ ToolServiceServer = (*Server)(nil)

// Execute looks up "tool_name" in req, checks availability, and
// invokes the tool's Execute against the "input" sub-struct. Tool
// errors surface as gRPC status errors carrying a structpb detail so
// the kind/retryable bits survive the wire.
func (s *Server) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	toolName := fields["tool_name"].GetStringValue()
	if toolName == "" {
		return nil, status.Error(codes.InvalidArgument, "tool_name is required")
	}

	tool, ok := s.tools[toolName]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "unknown tool %q", toolName)
	}
	if !tool.IsAvailable() {
		return nil, status.Errorf(codes.Unavailable, "tool %q is not available", toolName)
	}

	var input map[string]any
	if inStruct := fields["input"].GetStructValue(); inStruct != nil {
		input = inStruct.AsMap()
	}

	output, terr := tool.Execute(ctx, input)
	if terr != nil {
		return nil, toStatusError(toolName, terr)
	}

	outStruct, err := structpb.NewStruct(output)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "tool %q produced a non-JSON-compatible output: %v", toolName, err)
	}
	return structpb.NewStruct(map[string]any{
		"output": outStruct.AsMap(),
	})
}

func toStatusError(toolName string, terr *Error) error {
	code := codes.Internal
	switch terr.Kind {
	case ErrorKindValidation:
		code = codes.InvalidArgument
	case ErrorKindProvider:
		if terr.Retryable {
			code = codes.Unavailable
		} else {
			code = codes.FailedPrecondition
		}
	}

	st := status.New(code, fmt.Sprintf("tool %q failed: %s", toolName, terr.Message))
	detail, derr := structpb.NewStruct(map[string]any{
		"kind":      string(terr.Kind),
		"retryable": terr.Retryable,
	})
	if derr != nil {
		return st.Err()
	}
	stWithDetail, derr := st.WithDetails(detail)
	if derr != nil {
		return st.Err()
	}
	return stWithDetail.Err()
}
