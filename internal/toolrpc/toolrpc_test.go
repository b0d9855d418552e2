package toolrpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func dialServer(t *testing.T, srv ToolServiceServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	gs := grpc.NewServer()
	RegisterToolServiceServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func TestExecute_RoundTripsThroughEchoTool(t *testing.T) {
	client := dialServer(t, NewServer(EchoTool{}))

	out, terr := client.Execute(context.Background(), "echo", map[string]any{"greeting": "hello"})
	require.Nil(t, terr)
	assert.Equal(t, "hello", out["greeting"])
}

func TestExecute_UnknownToolReturnsError(t *testing.T) {
	client := dialServer(t, NewServer(EchoTool{}))

	out, terr := client.Execute(context.Background(), "does-not-exist", map[string]any{})
	assert.Nil(t, out)
	require.NotNil(t, terr)
}

func TestExecute_ValidationErrorSurvivesTheWireAsKindAndRetryable(t *testing.T) {
	client := dialServer(t, NewServer(EchoTool{}))

	out, terr := client.Execute(context.Background(), "echo", nil)
	assert.Nil(t, out)
	require.NotNil(t, terr)
	assert.Equal(t, ErrorKindValidation, terr.Kind)
	assert.False(t, terr.Retryable)
}
