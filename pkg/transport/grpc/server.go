package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/reflection"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/debug"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// Server serves a SolverService over gRPC, together with the health and
// reflection services.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	config     ServerConfig
	logger     *slog.Logger
	middleware []transport.Middleware
	options    []grpc.ServerOption
}

// ServerConfig holds configuration for the gRPC server.
type ServerConfig struct {
	Addr            string
	MaxRecvMsgSize  int
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":50051",
		MaxRecvMsgSize:  8 << 20, // 8 MB
		ShutdownTimeout: 30 * time.Second,
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.config.Addr = addr }
}

// WithMaxRecvMsgSize sets the largest request message accepted.
func WithMaxRecvMsgSize(n int) ServerOption {
	return func(s *Server) { s.config.MaxRecvMsgSize = n }
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.config.ShutdownTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithMiddleware appends service middleware. It runs inside the default
// recovery, request ID and logging middleware.
func WithMiddleware(mw ...transport.Middleware) ServerOption {
	return func(s *Server) { s.middleware = append(s.middleware, mw...) }
}

// WithGRPCOptions passes extra options to grpc.NewServer.
func WithGRPCOptions(opts ...grpc.ServerOption) ServerOption {
	return func(s *Server) { s.options = append(s.options, opts...) }
}

// NewServer creates a gRPC server for svc. Default middleware (recovery,
// request ID, logging) is applied automatically.
func NewServer(svc transport.SolverService, opts ...ServerOption) *Server {
	s := &Server{
		config: DefaultServerConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mw := []transport.Middleware{
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(s.logger),
	}
	mw = append(mw, s.middleware...)
	svc = transport.Chain(mw...)(svc)

	grpcOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(s.config.MaxRecvMsgSize),
		grpc.ChainUnaryInterceptor(contextInterceptor),
	}
	grpcOpts = append(grpcOpts, s.options...)

	s.grpcServer = grpc.NewServer(grpcOpts...)
	RegisterSolverService(s.grpcServer, svc)

	s.health = health.NewServer()
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)

	reflection.Register(s.grpcServer)

	return s
}

// GRPCServer returns the underlying grpc.Server.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("grpc server starting", slog.String("addr", ln.Addr().String()))
		if err := s.grpcServer.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	s.Shutdown()
	return nil
}

// Shutdown marks the service as not serving, then stops gracefully. If
// in-flight calls do not finish within the shutdown timeout the server is
// stopped hard.
func (s *Server) Shutdown() {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(s.config.ShutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		s.logger.Info("grpc server stopped")
	case <-timer.C:
		s.logger.Warn("graceful stop timed out, forcing", slog.Duration("timeout", s.config.ShutdownTimeout))
		s.grpcServer.Stop()
	}
}

// contextInterceptor copies the x-request-id metadata and the peer address
// into the request context and echoes the request ID as a response header.
func contextInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 {
			id = v[0]
		}
	}
	if id == "" {
		id = api.NewRequestID()
	}
	ctx = transport.ContextWithRequestID(ctx, id)

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		key := p.Addr.String()
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		ctx = transport.ContextWithClientKey(ctx, key)
	}

	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))
	debug.Log("grpc", "unary call", "method", info.FullMethod, "request_id", id)
	return next(ctx, req)
}
