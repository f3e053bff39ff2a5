package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alloy.solver.v1.SolverService"

// Full method names.
const (
	SolveMethod = "/" + ServiceName + "/Solve"
	PingMethod  = "/" + ServiceName + "/Ping"
)

// Metadata keys.
const (
	RequestIDKey  = "x-request-id"
	ErrorCodeKey  = "x-error-code"
	ErrorParamKey = "x-error-param"
)

// ServiceDesc describes the solver service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*transport.SolverService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Solve", Handler: solveHandler},
		{MethodName: "Ping", Handler: pingHandler},
	},
	Streams: []grpc.StreamDesc{},
	// No file descriptor is registered for the JSON-coded messages, so
	// reflection lists the service but cannot describe it.
	Metadata: "alloy/solver/v1/solver.proto",
}

// RegisterSolverService registers svc on s.
func RegisterSolverService(s grpc.ServiceRegistrar, svc transport.SolverService) {
	s.RegisterService(&ServiceDesc, &handler{svc: svc})
}

// handler adapts a SolverService to gRPC: it sets the request context and
// converts errors to status errors.
type handler struct {
	svc transport.SolverService
}

var _ transport.SolverService = (*handler)(nil)

func (h *handler) Solve(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
	resp, err := h.svc.Solve(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return resp, nil
}

func (h *handler) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	resp, err := h.svc.Ping(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return resp, nil
}

func solveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(api.SolveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(transport.SolverService).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SolveMethod}
	next := func(ctx context.Context, req any) (any, error) {
		return srv.(transport.SolverService).Solve(ctx, req.(*api.SolveRequest))
	}
	return interceptor(ctx, in, info, next)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(api.PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(transport.SolverService).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingMethod}
	next := func(ctx context.Context, req any) (any, error) {
		return srv.(transport.SolverService).Ping(ctx, req.(*api.PingRequest))
	}
	return interceptor(ctx, in, info, next)
}

// toStatus converts err to a gRPC status error and records the api error
// code and param as trailers.
func toStatus(ctx context.Context, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	apiErr := transport.AsAPIError(err)

	var pairs []string
	if apiErr.Code != "" {
		pairs = append(pairs, ErrorCodeKey, apiErr.Code)
	}
	if apiErr.Param != "" {
		pairs = append(pairs, ErrorParamKey, apiErr.Param)
	}
	if len(pairs) > 0 {
		_ = grpc.SetTrailer(ctx, metadata.Pairs(pairs...))
	}
	return status.Error(transport.GRPCCodeFromError(apiErr), apiErr.Message)
}
