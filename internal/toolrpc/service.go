package toolrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName   = "toolrpc.ToolService"
	methodExecute = "Execute"
	fullMethod    = "/" + serviceName + "/" + methodExecute
)

// ToolServiceServer is the gRPC-facing contract: a single unary
// Execute call carrying a tool_name plus an arbitrary JSON-shaped
// input struct, returning an arbitrary JSON-shaped output struct.
type ToolServiceServer interface {
	Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc stands in for a protoc-generated *_grpc.pb.go: it wires
// one unary method onto the proto wire codec using structpb.Struct,
// which is itself a compiled protobuf message, so no .proto schema or
// generation step is required to put real protobuf bytes on the wire.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ToolServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodExecute, Handler: executeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/toolrpc/service.go",
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolServiceServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ToolServiceServer).Execute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterToolServiceServer attaches an implementation to a running
// *grpc.Server.
func RegisterToolServiceServer(s *grpc.Server, srv ToolServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
