package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// mockService is a configurable mock SolverService for testing.
type mockService struct {
	response *api.SolveResponse
	err      error
	panicMsg string
	lastReq  *api.SolveRequest
	lastID   string
	lastKey  string
}

func (m *mockService) Solve(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
	m.lastReq = req
	m.lastID = transport.RequestIDFromContext(ctx)
	m.lastKey = transport.ClientKeyFromContext(ctx)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockService) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	msg := req.Message
	if msg == "" {
		msg = "pong"
	}
	return &api.PingResponse{Message: msg, Version: "6.3.0", AvailableSolvers: []string{"sat4j", "minisat"}}, nil
}

// startServer serves svc on an in-memory listener and returns a client
// connection to it.
func startServer(t *testing.T, svc transport.SolverService, opts ...ServerOption) (*Server, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(svc, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx, lis)
		close(done)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return srv, conn
}

func TestSolveOverGRPC(t *testing.T) {
	svc := &mockService{response: &api.SolveResponse{
		Satisfiable:  true,
		SolutionData: "A={A$0}",
		Metadata:     &api.SolutionMetadata{SolverUsed: "sat4j", ExecutedCommand: "Run show for 3"},
	}}
	_, conn := startServer(t, svc)

	var header metadata.MD
	var resp api.SolveResponse
	err := conn.Invoke(context.Background(), SolveMethod, &api.SolveRequest{
		ModelContent: "sig A {} run show {} for 3",
		SolverType:   api.SolverTypeGlucose,
		OutputFormat: api.OutputFormatXML,
		Command:      "*",
	}, &resp, grpc.CallContentSubtype(CodecName), grpc.Header(&header))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if !resp.Satisfiable || resp.SolutionData != "A={A$0}" || resp.Metadata.ExecutedCommand != "Run show for 3" {
		t.Errorf("response = %+v", resp)
	}
	if svc.lastReq.SolverType != api.SolverTypeGlucose || svc.lastReq.OutputFormat != api.OutputFormatXML {
		t.Errorf("decoded request = %+v", svc.lastReq)
	}
	if !api.ValidateRequestID(svc.lastID) {
		t.Errorf("request ID = %q", svc.lastID)
	}
	if got := header.Get(RequestIDKey); len(got) != 1 || got[0] != svc.lastID {
		t.Errorf("x-request-id header = %v, want %q", got, svc.lastID)
	}
	if svc.lastKey == "" {
		t.Error("client key must be set from the peer address")
	}
}

func TestRequestIDFromMetadata(t *testing.T) {
	svc := &mockService{response: &api.SolveResponse{}}
	_, conn := startServer(t, svc)

	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDKey, "client-id-7")
	var resp api.SolveResponse
	if err := conn.Invoke(ctx, SolveMethod, &api.SolveRequest{ModelContent: "x"}, &resp, grpc.CallContentSubtype(CodecName)); err != nil {
		t.Fatal(err)
	}
	if svc.lastID != "client-id-7" {
		t.Errorf("request ID = %q, want client-id-7", svc.lastID)
	}
}

func TestPingOverGRPC(t *testing.T) {
	_, conn := startServer(t, &mockService{})

	var resp api.PingResponse
	if err := conn.Invoke(context.Background(), PingMethod, &api.PingRequest{Message: "hi"}, &resp, grpc.CallContentSubtype(CodecName)); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "hi" || resp.Version != "6.3.0" || len(resp.AvailableSolvers) != 2 {
		t.Errorf("ping = %+v", resp)
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  codes.Code
		wantMsg   string
		wantTrail string
	}{
		{
			"invalid_argument",
			api.NewInvalidArgumentError("command", "Command not found: 9").WithCode(api.CodeCommandNotFound),
			codes.InvalidArgument, "Command not found: 9", api.CodeCommandNotFound,
		},
		{
			"unimplemented",
			api.NewUnimplementedError("Solver minisat is not available on this system").WithCode(api.CodeSolverUnavailable),
			codes.Unimplemented, "Solver minisat is not available on this system", api.CodeSolverUnavailable,
		},
		{
			"internal",
			api.NewInternalError("Solve error: boom").WithCode(api.CodeSolveFailed),
			codes.Internal, "Solve error: boom", api.CodeSolveFailed,
		},
		{
			"resource_exhausted",
			api.NewResourceExhaustedError("rate limit exceeded"),
			codes.ResourceExhausted, "rate limit exceeded", api.CodeRateLimited,
		},
		{
			"status passthrough",
			status.Error(codes.DeadlineExceeded, "too slow"),
			codes.DeadlineExceeded, "too slow", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, conn := startServer(t, &mockService{err: tt.err})

			var trailer metadata.MD
			var resp api.SolveResponse
			err := conn.Invoke(context.Background(), SolveMethod, &api.SolveRequest{ModelContent: "x"}, &resp,
				grpc.CallContentSubtype(CodecName), grpc.Trailer(&trailer))

			st, ok := status.FromError(err)
			if !ok {
				t.Fatalf("expected status error, got %v", err)
			}
			if st.Code() != tt.wantCode {
				t.Errorf("code = %v, want %v", st.Code(), tt.wantCode)
			}
			if st.Message() != tt.wantMsg {
				t.Errorf("message = %q, want %q", st.Message(), tt.wantMsg)
			}
			got := trailer.Get(ErrorCodeKey)
			if tt.wantTrail == "" {
				if len(got) != 0 {
					t.Errorf("unexpected error code trailer %v", got)
				}
			} else if len(got) != 1 || got[0] != tt.wantTrail {
				t.Errorf("error code trailer = %v, want %q", got, tt.wantTrail)
			}
		})
	}
}

func TestPanicBecomesInternal(t *testing.T) {
	_, conn := startServer(t, &mockService{panicMsg: "kaboom"})

	var resp api.SolveResponse
	err := conn.Invoke(context.Background(), SolveMethod, &api.SolveRequest{ModelContent: "x"}, &resp, grpc.CallContentSubtype(CodecName))
	st, _ := status.FromError(err)
	if st.Code() != codes.Internal || !strings.Contains(st.Message(), "kaboom") {
		t.Errorf("status = %v", st)
	}

	// The server keeps serving after a recovered panic.
	var pong api.PingResponse
	if err := conn.Invoke(context.Background(), PingMethod, &api.PingRequest{}, &pong, grpc.CallContentSubtype(CodecName)); err != nil {
		t.Errorf("ping after panic: %v", err)
	}
}

func TestMiddlewareOption(t *testing.T) {
	svc := &mockService{response: &api.SolveResponse{}}
	_, conn := startServer(t, svc, WithMiddleware(transport.RateLimit(transport.NewRateLimiter(0.001, 1, time.Minute))))

	var resp api.SolveResponse
	if err := conn.Invoke(context.Background(), SolveMethod, &api.SolveRequest{ModelContent: "x"}, &resp, grpc.CallContentSubtype(CodecName)); err != nil {
		t.Fatalf("first call: %v", err)
	}
	err := conn.Invoke(context.Background(), SolveMethod, &api.SolveRequest{ModelContent: "x"}, &resp, grpc.CallContentSubtype(CodecName))
	if status.Code(err) != codes.ResourceExhausted {
		t.Errorf("second call = %v, want ResourceExhausted", err)
	}
}

func TestHealthAndReflection(t *testing.T) {
	srv, conn := startServer(t, &mockService{})

	hc := healthpb.NewHealthClient(conn)
	for _, service := range []string{"", ServiceName} {
		resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			t.Fatalf("health check %q: %v", service, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("health %q = %v", service, resp.GetStatus())
		}
	}

	info := srv.GRPCServer().GetServiceInfo()
	for _, name := range []string{ServiceName, "grpc.health.v1.Health", "grpc.reflection.v1.ServerReflection"} {
		if _, ok := info[name]; !ok {
			t.Errorf("service %q not registered", name)
		}
	}
	if methods := info[ServiceName].Methods; len(methods) != 2 {
		t.Errorf("solver service methods = %v", methods)
	}
}

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	if c.Name() != "json" {
		t.Errorf("Name() = %q", c.Name())
	}

	data, err := c.Marshal(&api.SolveRequest{ModelContent: "m", SolverType: api.SolverTypeMiniSat})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"solver_type":"SOLVER_TYPE_MINISAT"`) {
		t.Errorf("marshaled = %s", data)
	}

	var req api.SolveRequest
	if err := c.Unmarshal(data, &req); err != nil {
		t.Fatal(err)
	}
	if req.SolverType != api.SolverTypeMiniSat || req.ModelContent != "m" {
		t.Errorf("unmarshaled = %+v", req)
	}

	var empty api.PingRequest
	if err := c.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty payload: %v", err)
	}
	if err := c.Unmarshal([]byte("{bad"), &empty); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
