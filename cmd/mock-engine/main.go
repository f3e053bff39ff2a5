// Command mock-engine runs a deterministic model engine sidecar for local
// development and integration testing. It speaks the same HTTP protocol as
// the real engine: run commands are satisfiable, check commands are not.
//
// Configuration:
//
//	MOCK_PORT     - Listen port (default: 9091)
//	MOCK_BACKENDS - Comma-separated extra SAT backends to advertise (default: none)
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rhuss/alloyrpc/pkg/solver/solvertest"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9091"
	}

	var backends []string
	if v := os.Getenv("MOCK_BACKENDS"); v != "" {
		backends = strings.Split(v, ",")
	}
	sidecar := solvertest.NewSidecar(&solvertest.Engine{}, backends...)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           logRequests(sidecar),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock engine starting", "port", port, "backends", strings.Join(sidecar.Backends, ","))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock engine failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock engine shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("mock engine request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
