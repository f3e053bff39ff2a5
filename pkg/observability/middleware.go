package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// MetricsMiddleware wraps an HTTP handler to record request metrics.
//
// It captures:
//   - alloyrpc_requests_total (counter): incremented per request with method and status class labels
//   - alloyrpc_request_duration_seconds (histogram): request duration with a method label
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		statusStr := strconv.Itoa(sw.status/100) + "xx"
		RequestsTotal.WithLabelValues(r.Method, statusStr).Inc()
		RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// Metrics returns a transport middleware that records solve metrics for
// every transport sharing the service: solve counts by outcome, latency,
// and the active solve gauge. Ping calls pass through unrecorded.
func Metrics() transport.Middleware {
	return func(next transport.SolverService) transport.SolverService {
		return transport.SolverServiceFuncs{
			SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
				ActiveSolves.Inc()
				defer ActiveSolves.Dec()

				start := time.Now()
				resp, err := next.Solve(ctx, req)
				elapsed := time.Since(start).Seconds()

				backend, outcome := classify(resp, err)
				SolvesTotal.WithLabelValues(backend, outcome).Inc()
				SolveDuration.WithLabelValues(backend).Observe(elapsed)
				if resp != nil && resp.Metadata != nil && resp.ErrorMessage == "" {
					EngineSolvingSeconds.WithLabelValues(backend).
						Observe(float64(resp.Metadata.SolvingTimeMs) / 1000)
				}
				return resp, err
			},
			PingFunc: next.Ping,
		}
	}
}

func classify(resp *api.SolveResponse, err error) (backend, outcome string) {
	backend = "unknown"
	if resp != nil && resp.Metadata != nil && resp.Metadata.SolverUsed != "" {
		backend = resp.Metadata.SolverUsed
	}
	switch {
	case err != nil:
		return backend, string(transport.AsAPIError(err).Type)
	case resp == nil:
		return backend, string(api.ErrorTypeInternal)
	case resp.ErrorMessage != "":
		return backend, "rejected"
	case resp.Satisfiable:
		return backend, "sat"
	default:
		return backend, "unsat"
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// WriteHeader captures the status code and delegates to the underlying writer.
func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// Write delegates to the underlying writer and marks the status as written.
func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

// Flush delegates to the underlying writer if it implements http.Flusher.
// The MCP streamable handler relies on it.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter, enabling http.ResponseController
// and similar utilities to access the original writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
