package transport

import (
	"context"
	"fmt"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to internal error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next SolverService) SolverService {
		return SolverServiceFuncs{
			SolveFunc: func(ctx context.Context, req *api.SolveRequest) (resp *api.SolveResponse, retErr error) {
				defer func() {
					if r := recover(); r != nil {
						resp, retErr = nil, api.NewInternalError(fmt.Sprintf("Internal error: %v", r))
					}
				}()
				return next.Solve(ctx, req)
			},
			PingFunc: func(ctx context.Context, req *api.PingRequest) (resp *api.PingResponse, retErr error) {
				defer func() {
					if r := recover(); r != nil {
						resp, retErr = nil, api.NewInternalError(fmt.Sprintf("Internal error: %v", r))
					}
				}()
				return next.Ping(ctx, req)
			},
		}
	}
}
