package toolrpc

import "context"

// EchoTool is a trivial always-available tool used to exercise the
// RPC plumbing end to end without depending on any real out-of-process
// provider; it mirrors the routing package's local-mock fallback route.
type EchoTool struct{}

func (EchoTool) Name() string        { return "echo" }
func (EchoTool) Description() string { return "returns its input unchanged, for wiring checks" }
func (EchoTool) IsAvailable() bool   { return true }

func (EchoTool) Execute(_ context.Context, input map[string]any) (map[string]any, *Error) {
	if input == nil {
		return nil, &Error{Kind: ErrorKindValidation, Message: "input is required"}
	}
	return input, nil
}
