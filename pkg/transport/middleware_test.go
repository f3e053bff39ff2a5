package transport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rhuss/alloyrpc/pkg/api"
)

func okService() SolverServiceFuncs {
	return SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			return &api.SolveResponse{Satisfiable: true, Metadata: &api.SolutionMetadata{ExecutedCommand: "Run show for 3"}}, nil
		},
		PingFunc: func(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
			return &api.PingResponse{Message: "pong"}, nil
		},
	}
}

func TestSolverServiceFuncsUnimplemented(t *testing.T) {
	var svc SolverService = SolverServiceFuncs{}

	_, err := svc.Solve(context.Background(), &api.SolveRequest{})
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeUnimplemented {
		t.Errorf("Solve on empty funcs = %v", err)
	}
	_, err = svc.Ping(context.Background(), &api.PingRequest{})
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeUnimplemented {
		t.Errorf("Ping on empty funcs = %v", err)
	}
}

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next SolverService) SolverService {
			return wrapSolve(next, func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
				order = append(order, name+":before")
				resp, err := next.Solve(ctx, req)
				order = append(order, name+":after")
				return resp, err
			})
		}
	}

	handler := SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			order = append(order, "handler")
			return &api.SolveResponse{}, nil
		},
	}

	chain := Chain(mw("first"), mw("second"), mw("third"))
	wrapped := chain(handler)

	wrapped.Solve(context.Background(), &api.SolveRequest{})

	expected := []string{
		"first:before", "second:before", "third:before",
		"handler",
		"third:after", "second:after", "first:after",
	}

	if len(order) != len(expected) {
		t.Fatalf("execution order length = %d, want %d: %v", len(order), len(expected), order)
	}
	for i, got := range order {
		if got != expected[i] {
			t.Errorf("order[%d] = %q, want %q", i, got, expected[i])
		}
	}
}

func TestWrapSolvePassesPingThrough(t *testing.T) {
	wrapped := wrapSolve(okService(), func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
		return nil, errors.New("solve replaced")
	})
	resp, err := wrapped.Ping(context.Background(), &api.PingRequest{})
	if err != nil || resp.Message != "pong" {
		t.Errorf("Ping = %+v, %v", resp, err)
	}
}

func TestRecoveryCatchesPanic(t *testing.T) {
	handler := SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			panic("test panic")
		},
		PingFunc: func(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
			panic("ping panic")
		},
	}

	wrapped := Recovery()(handler)
	resp, err := wrapped.Solve(context.Background(), &api.SolveRequest{})

	if err == nil {
		t.Fatal("expected error after panic, got nil")
	}
	if resp != nil {
		t.Errorf("expected nil response, got %+v", resp)
	}

	apiErr, ok := err.(*api.APIError)
	if !ok {
		t.Fatalf("expected *api.APIError, got %T: %v", err, err)
	}
	if apiErr.Type != api.ErrorTypeInternal {
		t.Errorf("error type = %q, want %q", apiErr.Type, api.ErrorTypeInternal)
	}
	if !strings.Contains(apiErr.Message, "test panic") {
		t.Errorf("error message = %q, should contain %q", apiErr.Message, "test panic")
	}

	if _, err := wrapped.Ping(context.Background(), &api.PingRequest{}); err == nil {
		t.Error("expected error after ping panic")
	}
}

func TestRecoveryPassesThroughNormalExecution(t *testing.T) {
	wrapped := Recovery()(okService())
	resp, err := wrapped.Solve(context.Background(), &api.SolveRequest{})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Satisfiable {
		t.Error("response was not passed through")
	}
}

func TestRequestIDGeneratesNewID(t *testing.T) {
	var capturedID string

	handler := SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			capturedID = RequestIDFromContext(ctx)
			return &api.SolveResponse{}, nil
		},
	}

	wrapped := RequestID()(handler)
	wrapped.Solve(context.Background(), &api.SolveRequest{})

	if capturedID == "" {
		t.Error("expected a generated request ID, got empty string")
	}
	if !api.ValidateRequestID(capturedID) {
		t.Errorf("generated ID %q is invalid", capturedID)
	}
}

func TestRequestIDPropagatesExisting(t *testing.T) {
	var capturedID string

	handler := SolverServiceFuncs{
		PingFunc: func(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
			capturedID = RequestIDFromContext(ctx)
			return &api.PingResponse{}, nil
		},
	}

	ctx := ContextWithRequestID(context.Background(), "existing-id-123")
	wrapped := RequestID()(handler)
	wrapped.Ping(ctx, &api.PingRequest{})

	if capturedID != "existing-id-123" {
		t.Errorf("request ID = %q, want %q", capturedID, "existing-id-123")
	}
}

func TestRequestIDUniqueness(t *testing.T) {
	ids := make(map[string]bool)
	handler := SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			ids[RequestIDFromContext(ctx)] = true
			return &api.SolveResponse{}, nil
		},
	}

	wrapped := RequestID()(handler)
	for i := 0; i < 100; i++ {
		wrapped.Solve(context.Background(), &api.SolveRequest{})
	}

	if len(ids) != 100 {
		t.Errorf("expected 100 unique IDs, got %d", len(ids))
	}
}

func TestClientKeyContext(t *testing.T) {
	if got := ClientKeyFromContext(context.Background()); got != "" {
		t.Errorf("empty context key = %q", got)
	}
	ctx := ContextWithClientKey(context.Background(), "10.0.0.1")
	if got := ClientKeyFromContext(ctx); got != "10.0.0.1" {
		t.Errorf("client key = %q", got)
	}
}

func TestLoggingEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := ContextWithRequestID(context.Background(), "req-log-test")
	wrapped := Logging(logger)(okService())
	wrapped.Solve(ctx, &api.SolveRequest{Command: "show", SolverType: api.SolverTypeMiniSat})

	output := buf.String()
	for _, expected := range []string{
		"request_id=req-log-test", "operation=solve", "command=show",
		"solver_type=SOLVER_TYPE_MINISAT", "satisfiable=true", "request completed",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("log output missing %q in:\n%s", expected, output)
		}
	}
}

func TestLoggingEmitsErrorOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			return nil, api.NewInternalError("test failure")
		},
	}

	wrapped := Logging(logger)(handler)
	wrapped.Solve(context.Background(), &api.SolveRequest{})

	output := buf.String()
	if !strings.Contains(output, "request failed") {
		t.Errorf("log output missing 'request failed' in:\n%s", output)
	}
	if !strings.Contains(output, "test failure") {
		t.Errorf("log output missing error message in:\n%s", output)
	}
}

func TestLoggingSoftError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := SolverServiceFuncs{
		SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
			return &api.SolveResponse{ErrorMessage: api.EmptyModelMessage}, nil
		},
	}

	Logging(logger)(handler).Solve(context.Background(), nil)

	if !strings.Contains(buf.String(), "request rejected") {
		t.Errorf("log output missing 'request rejected' in:\n%s", buf.String())
	}
}

func TestLoggingPingAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	Logging(logger)(okService()).Ping(context.Background(), &api.PingRequest{})

	if buf.Len() != 0 {
		t.Errorf("ping must log below info, got:\n%s", buf.String())
	}
}
