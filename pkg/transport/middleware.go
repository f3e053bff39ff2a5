package transport

import "context"

// Middleware decorates a SolverService. Transports and cmd/server build
// their stacks from these.
type Middleware func(SolverService) SolverService

// Chain folds middlewares so that the first argument sees a call first.
// Chain(a, b)(svc) is a(b(svc)); Chain() is the identity.
func Chain(middlewares ...Middleware) Middleware {
	return func(svc SolverService) SolverService {
		for i := range middlewares {
			svc = middlewares[len(middlewares)-1-i](svc)
		}
		return svc
	}
}

// ctxKey distinguishes the per-call values transports attach.
type ctxKey uint8

const (
	requestIDKey ctxKey = iota
	clientKey
)

func stringValue(ctx context.Context, k ctxKey) string {
	s, _ := ctx.Value(k).(string)
	return s
}

// RequestIDFromContext returns the request ID, or "" when none was set.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// ContextWithRequestID attaches id to ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ClientKeyFromContext returns the key identifying the calling client:
// the remote host for HTTP, the peer address for gRPC, "" for MCP.
func ClientKeyFromContext(ctx context.Context) string {
	return stringValue(ctx, clientKey)
}

// ContextWithClientKey attaches the rate limiter's client key to ctx.
func ContextWithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKey, key)
}
