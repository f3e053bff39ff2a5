// Command server runs the alloyrpc model-solving service.
//
// It serves the solver API over gRPC and HTTP/JSON, plus health, metrics
// and optionally an MCP tool endpoint on the HTTP port. Models are parsed
// and solved by an engine sidecar addressed by solver.url.
//
// Configuration is read from a YAML or TOML file and ALLOYRPC_* environment
// variables. See pkg/config for the full list.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/config"
	"github.com/rhuss/alloyrpc/pkg/debug"
	"github.com/rhuss/alloyrpc/pkg/engine"
	"github.com/rhuss/alloyrpc/pkg/observability"
	"github.com/rhuss/alloyrpc/pkg/solver"
	"github.com/rhuss/alloyrpc/pkg/solver/remote"
	"github.com/rhuss/alloyrpc/pkg/transport"
	transportgrpc "github.com/rhuss/alloyrpc/pkg/transport/grpc"
	transporthttp "github.com/rhuss/alloyrpc/pkg/transport/http"
	transportmcp "github.com/rhuss/alloyrpc/pkg/transport/mcp"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML or TOML config file")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	unknown := debug.Init(cfg.Debug.Categories, cfg.Debug.Level, cfg.Debug.Format)
	logger := slog.Default()
	if len(unknown) > 0 {
		logger.Warn("unknown debug categories", slog.String("categories", strings.Join(unknown, ",")))
	}

	sidecar, err := remote.New(remote.Config{
		BaseURL: cfg.Solver.URL,
		APIKey:  cfg.Solver.APIKey,
		Timeout: cfg.Solver.Timeout.D(),
	})
	if err != nil {
		return fmt.Errorf("creating engine client: %w", err)
	}
	defer sidecar.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := discoverBackends(ctx, cfg.Engine.Backends, sidecar, logger)

	eng, err := engine.New(sidecar, sidecar, registry, engine.Config{
		Version:    cfg.Engine.Version,
		BuildDate:  cfg.Engine.BuildDate,
		Validation: api.ValidationConfig{MaxModelBytes: cfg.Engine.MaxModelBytes},
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	// Limits and metrics are shared by every transport so that caps hold
	// process-wide.
	svc := transport.Chain(
		observability.Metrics(),
		transport.RateLimit(transport.NewRateLimiter(cfg.Limits.RequestsPerSecond, cfg.Limits.Burst, cfg.Limits.IdleTTL.D())),
		transport.ConcurrencyLimit(int64(cfg.Engine.MaxConcurrentSolves)),
	)(eng)

	grpcSrv := transportgrpc.NewServer(svc,
		transportgrpc.WithAddr(":"+strconv.Itoa(cfg.Server.GRPCPort)),
		transportgrpc.WithMaxRecvMsgSize(int(cfg.Server.MaxBodySize)),
		transportgrpc.WithShutdownTimeout(cfg.Server.ShutdownTimeout.D()),
		transportgrpc.WithLogger(logger),
	)

	httpOpts := []transporthttp.ServerOption{
		transporthttp.WithAddr(":" + strconv.Itoa(cfg.Server.HTTPPort)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout.D()),
		transporthttp.WithLogger(logger),
		transporthttp.WithHandler("GET /healthz", healthHandler(sidecar)),
	}
	if cfg.Observability.Metrics.Enabled {
		httpOpts = append(httpOpts,
			transporthttp.WithHTTPMiddleware(observability.MetricsMiddleware),
			transporthttp.WithHandler("GET "+cfg.Observability.Metrics.Path, observability.Handler()),
		)
	}
	if cfg.MCP.Enabled {
		mcpServer := transportmcp.NewServer(svc,
			transportmcp.Config{Name: "alloyrpc", Version: eng.Version()},
			transport.Recovery(), transport.RequestID(), transport.Logging(logger),
		)
		httpOpts = append(httpOpts, transporthttp.WithHandler(cfg.MCP.Path, transportmcp.Handler(mcpServer)))
	}
	httpSrv := transporthttp.NewServer(svc, httpOpts...)

	logger.Info("alloyrpc starting",
		slog.Int("grpc_port", cfg.Server.GRPCPort),
		slog.Int("http_port", cfg.Server.HTTPPort),
		slog.String("solver_url", cfg.Solver.URL),
		slog.String("backends", strings.Join(registry.IDs(), ",")),
		slog.Bool("mcp", cfg.MCP.Enabled),
		slog.Bool("metrics", cfg.Observability.Metrics.Enabled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcSrv.Run(gctx) })
	g.Go(func() error { return httpSrv.Run(gctx) })
	return g.Wait()
}

// discoverBackends builds the installed backend registry from, in order,
// the static config list, the sidecar's backend listing, or just the
// default backend when both are unavailable.
func discoverBackends(ctx context.Context, static []string, sidecar *remote.Client, logger *slog.Logger) *solver.Registry {
	if len(static) > 0 {
		backends := make([]solver.Backend, 0, len(static))
		for _, b := range static {
			backends = append(backends, solver.Backend(b))
		}
		return solver.NewRegistry(backends...)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	backends, err := sidecar.Backends(ctx)
	if err != nil {
		logger.Warn("backend discovery failed, using default backend only",
			slog.String("default", string(solver.DefaultBackend)),
			slog.String("error", err.Error()))
		return solver.NewRegistry()
	}
	return solver.NewRegistry(backends...)
}

// healthHandler reports ok when the engine sidecar is reachable.
func healthHandler(sidecar *remote.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := sidecar.Ready(ctx); err != nil {
			http.Error(w, "engine unavailable: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
}
