package transport

import (
	"context"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// RequestID returns middleware that assigns a unique request ID to each
// request. If the incoming request context already carries a request ID
// (set by a transport from the X-Request-ID header or the x-request-id
// metadata key), that value is used. Otherwise, a new unique ID is generated.
//
// The request ID is stored in the context and can be retrieved with
// RequestIDFromContext.
func RequestID() Middleware {
	return func(next SolverService) SolverService {
		return SolverServiceFuncs{
			SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
				return next.Solve(ensureRequestID(ctx), req)
			},
			PingFunc: func(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
				return next.Ping(ensureRequestID(ctx), req)
			},
		}
	}
}

func ensureRequestID(ctx context.Context) context.Context {
	if RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return ContextWithRequestID(ctx, api.NewRequestID())
}
