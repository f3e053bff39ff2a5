package transport

import (
	"context"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// SolverService handles the solve and ping operations. Implementations
// must be safe for concurrent use; every transport calls them from one
// goroutine per request.
type SolverService interface {
	// Solve runs one solve request. Classified failures are returned as
	// *api.APIError. Some request problems are reported in-band through
	// SolveResponse.ErrorMessage instead.
	Solve(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error)

	// Ping reports liveness, version and installed backends.
	Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error)
}

// SolveFunc is the signature of SolverService.Solve.
type SolveFunc func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error)

// PingFunc is the signature of SolverService.Ping.
type PingFunc func(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error)

// SolverServiceFuncs is an adapter that allows using ordinary functions as
// a SolverService. A nil function reports the operation as unimplemented.
type SolverServiceFuncs struct {
	SolveFunc SolveFunc
	PingFunc  PingFunc
}

// Solve calls f.SolveFunc(ctx, req).
func (f SolverServiceFuncs) Solve(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
	if f.SolveFunc == nil {
		return nil, api.NewUnimplementedError("solve is not implemented")
	}
	return f.SolveFunc(ctx, req)
}

// Ping calls f.PingFunc(ctx, req).
func (f SolverServiceFuncs) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	if f.PingFunc == nil {
		return nil, api.NewUnimplementedError("ping is not implemented")
	}
	return f.PingFunc(ctx, req)
}

// wrapSolve returns a service that runs solve in place of next.Solve and
// passes Ping through unchanged.
func wrapSolve(next SolverService, solve SolveFunc) SolverService {
	return SolverServiceFuncs{SolveFunc: solve, PingFunc: next.Ping}
}
