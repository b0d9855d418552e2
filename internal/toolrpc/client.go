package toolrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is the caller-facing handle to a remote ToolService: one
// Execute call per invocation, matching the Tool interface's own
// Execute signature so a local and a remote tool are interchangeable.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established gRPC connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Execute invokes the named remote tool with input, translating the
// gRPC status (and any attached kind/retryable detail) back into a
// toolrpc.Error on failure.
func (c *Client) Execute(ctx context.Context, toolName string, input map[string]any) (map[string]any, *Error) {
	reqFields := map[string]any{"tool_name": toolName}
	if input != nil {
		inStruct, err := structpb.NewStruct(input)
		if err != nil {
			return nil, &Error{Kind: ErrorKindValidation, Message: "input is not JSON-compatible: " + err.Error()}
		}
		reqFields["input"] = inStruct.AsMap()
	}
	req, err := structpb.NewStruct(reqFields)
	if err != nil {
		return nil, &Error{Kind: ErrorKindInternal, Message: err.Error()}
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod, req, resp); err != nil {
		return nil, fromStatusError(err)
	}

	output := resp.GetFields()["output"].GetStructValue()
	if output == nil {
		return map[string]any{}, nil
	}
	return output.AsMap(), nil
}

func fromStatusError(err error) *Error {
	st, ok := status.FromError(err)
	if !ok {
		return &Error{Kind: ErrorKindInternal, Message: err.Error()}
	}

	for _, detail := range st.Details() {
		if s, ok := detail.(*structpb.Struct); ok {
			fields := s.GetFields()
			return &Error{
				Kind:      ErrorKind(fields["kind"].GetStringValue()),
				Message:   st.Message(),
				Retryable: fields["retryable"].GetBoolValue(),
			}
		}
	}
	return &Error{Kind: ErrorKindInternal, Message: st.Message()}
}
