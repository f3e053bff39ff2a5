// Package client is a Go client for the alloyrpc gRPC service.
package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/transport"
	grpctransport "github.com/rhuss/alloyrpc/pkg/transport/grpc"
)

// Config holds client settings.
type Config struct {
	// Target is the gRPC target, e.g. "localhost:50051".
	Target string

	// Timeout bounds each call when the caller's context has no deadline.
	// Zero means no timeout.
	Timeout time.Duration

	// DialOptions are passed to grpc.NewClient. When empty, an insecure
	// connection is used.
	DialOptions []grpc.DialOption
}

// DefaultConfig returns a Config for a local server.
func DefaultConfig() Config {
	return Config{
		Target:  "localhost:50051",
		Timeout: 10 * time.Minute,
	}
}

// Client calls the solver service. It implements transport.SolverService,
// and so can stand in for a local engine.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

var _ transport.SolverService = (*Client)(nil)

// New creates a client for cfg.Target. The connection is established
// lazily on the first call.
func New(cfg Config) (*Client, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("client: target must not be empty")
	}
	opts := cfg.DialOptions
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	opts = append(opts, grpc.WithDefaultCallOptions(grpc.CallContentSubtype(grpctransport.CodecName)))

	conn, err := grpc.NewClient(cfg.Target, opts...)
	if err != nil {
		return nil, fmt.Errorf("client: connecting to %s: %w", cfg.Target, err)
	}
	return &Client{conn: conn, timeout: cfg.Timeout}, nil
}

// Solve sends a solve request. Failures reported by the server are
// returned as *api.APIError.
func (c *Client) Solve(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
	resp := new(api.SolveResponse)
	if err := c.invoke(ctx, grpctransport.SolveMethod, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Ping sends a ping request.
func (c *Client) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	if req == nil {
		req = &api.PingRequest{}
	}
	resp := new(api.PingResponse)
	if err := c.invoke(ctx, grpctransport.PingMethod, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if id := transport.RequestIDFromContext(ctx); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, grpctransport.RequestIDKey, id)
	}

	var trailer metadata.MD
	if err := c.conn.Invoke(ctx, method, req, resp, grpc.Trailer(&trailer)); err != nil {
		return fromStatus(err, trailer)
	}
	return nil
}

// fromStatus converts a gRPC status error back to an *api.APIError.
func fromStatus(err error, trailer metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	apiErr := &api.APIError{
		Type:    transport.ErrorTypeFromGRPCCode(st.Code()),
		Message: st.Message(),
	}
	if v := trailer.Get(grpctransport.ErrorCodeKey); len(v) > 0 {
		apiErr.Code = v[0]
	}
	if v := trailer.Get(grpctransport.ErrorParamKey); len(v) > 0 {
		apiErr.Param = v[0]
	}
	return apiErr
}
