package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// Adapter serves the solver API as JSON over HTTP.
// It routes requests to the SolverService and serializes responses.
type Adapter struct {
	svc    transport.SolverService
	mux    *http.ServeMux
	config Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr            string
	MaxBodySize     int64
	ShutdownTimeout int // seconds
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxBodySize:     8 << 20, // 8 MB, room for a 4 MiB model after JSON escaping
		ShutdownTimeout: 30,
	}
}

// NewAdapter creates an HTTP adapter for the given SolverService.
// Middleware is applied to the service in the given order.
func NewAdapter(svc transport.SolverService, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		svc = transport.Chain(middlewares...)(svc)
	}

	a := &Adapter{
		svc:    svc,
		mux:    http.NewServeMux(),
		config: cfg,
	}

	a.mux.HandleFunc("POST /v1/solve", a.handleSolve)
	a.mux.HandleFunc("GET /v1/ping", a.handlePing)
	a.mux.HandleFunc("POST /v1/ping", a.handlePing)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID and client key propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(clientKeyMiddleware(a.mux))
}

// httpRequestIDMiddleware is HTTP-level middleware that propagates the
// X-Request-ID header into the request context. Handlers echo the
// effective ID back in the response header.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx := transport.ContextWithRequestID(r.Context(), id)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// clientKeyMiddleware records the remote host as the rate limiter key.
func clientKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		next.ServeHTTP(w, r.WithContext(transport.ContextWithClientKey(r.Context(), host)))
	})
}

// handleSolve handles POST /v1/solve.
func (a *Adapter) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req api.SolveRequest
	if !a.decodeBody(w, r, &req, false) {
		return
	}

	ctx := withRequestID(w, r)

	resp, err := a.svc.Solve(ctx, &req)
	if err != nil {
		transport.WriteAPIError(w, transport.AsAPIError(err))
		return
	}
	writeJSON(w, resp)
}

// handlePing handles GET and POST /v1/ping. GET takes the message from the
// "message" query parameter; POST takes an optional JSON body.
func (a *Adapter) handlePing(w http.ResponseWriter, r *http.Request) {
	var req api.PingRequest
	if r.Method == http.MethodGet {
		req.Message = r.URL.Query().Get("message")
	} else if !a.decodeBody(w, r, &req, true) {
		return
	}

	ctx := withRequestID(w, r)

	resp, err := a.svc.Ping(ctx, &req)
	if err != nil {
		transport.WriteAPIError(w, transport.AsAPIError(err))
		return
	}
	writeJSON(w, resp)
}

// withRequestID makes sure the dispatch context carries a request ID and
// sets the X-Request-ID response header to it, so the header matches what
// the service logged.
func withRequestID(w http.ResponseWriter, r *http.Request) context.Context {
	ctx := r.Context()
	id := transport.RequestIDFromContext(ctx)
	if id == "" {
		id = api.NewRequestID()
		ctx = transport.ContextWithRequestID(ctx, id)
	}
	w.Header().Set("X-Request-ID", id)
	return ctx
}

// decodeBody validates the content type, limits the body size and decodes
// JSON into v. It writes the error response and returns false on failure.
func (a *Adapter) decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	if !isJSON(r.Header.Get("Content-Type")) {
		transport.WriteErrorResponse(w,
			api.NewInvalidArgumentError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return false
	}

	if a.config.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidArgumentError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)).
					WithCode(api.CodeModelTooLarge),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidArgumentError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// isJSON reports whether ct is empty or names application/json, with any
// parameters such as charset.
func isJSON(ct string) bool {
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}
