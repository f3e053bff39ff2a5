package engine

import (
	"context"
	"fmt"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/debug"
	"github.com/rhuss/alloyrpc/pkg/solver"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// Engine orchestrates solve requests between the transport layer and the
// model engine. It implements transport.SolverService.
type Engine struct {
	parser   solver.Parser
	solver   solver.Engine
	backends *solver.Registry
	cfg      Config
}

// Ensure Engine implements transport.SolverService at compile time.
var _ transport.SolverService = (*Engine)(nil)

// New creates a new Engine. The parser and solver must not be nil. A nil
// registry means only the default backend is installed.
func New(p solver.Parser, s solver.Engine, backends *solver.Registry, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: parser must not be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("engine: solver must not be nil")
	}
	if backends == nil {
		backends = solver.NewRegistry()
	}
	return &Engine{
		parser:   p,
		solver:   s,
		backends: backends,
		cfg:      cfg,
	}, nil
}

// Solve runs the solve pipeline for one request. Fatal failures are
// returned as *api.APIError; blank model content yields a normal response
// carrying the error message.
func (e *Engine) Solve(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
	start := e.cfg.now()

	if req == nil {
		return nil, api.NewInvalidArgumentError("", "request is required")
	}
	if msg := api.ValidateModelContent(req.ModelContent); msg != "" {
		return softErrorResponse(msg, e.cfg.now().Sub(start).Milliseconds()), nil
	}
	if apiErr := api.ValidateRequest(req, e.cfg.Validation); apiErr != nil {
		return nil, apiErr
	}

	backend := TranslateBackend(req.SolverType)
	if backend != solver.DefaultBackend && !e.backends.Available(backend) {
		return nil, unavailableBackend(backend)
	}

	model, err := e.load(ctx, req.ModelContent)
	if err != nil {
		return nil, classify(stageLoad, err)
	}

	sel, err := resolveCommand(model, req.Command)
	if err != nil {
		return nil, classify(stageResolve, err)
	}

	opts := TranslateOptions(req.SolverOptions, req.SolverType)

	if sel.all {
		return e.aggregate(e.solveAll(ctx, model, opts, req.OutputFormat), opts)
	}

	o, err := e.execute(ctx, model, sel.command, opts)
	if err != nil {
		return nil, classify(stageSolve, err)
	}
	return &api.SolveResponse{
		Satisfiable:  o.satisfiable(),
		SolutionData: renderSolution(o.solution, req.OutputFormat, e.cfg.buildDate()),
		Metadata:     newMetadata(o, opts),
	}, nil
}

// Version returns the version reported by Ping.
func (e *Engine) Version() string {
	return e.cfg.version()
}

// Ping reports liveness, version and the installed backends.
func (e *Engine) Ping(_ context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	msg := "pong"
	if req != nil && req.Message != "" {
		msg = req.Message
	}
	return &api.PingResponse{
		Message:          msg,
		Timestamp:        e.cfg.now().UnixMilli(),
		Version:          e.cfg.version(),
		AvailableSolvers: e.backends.IDs(),
	}, nil
}

// load parses the model text. Parser warnings are only logged.
func (e *Engine) load(ctx context.Context, text string) (*solver.Model, error) {
	var rep solver.CollectingReporter
	model, err := e.parser.Parse(ctx, text, &rep)
	for _, w := range rep.Warnings() {
		debug.Log("engine", "model warning", "warning", w)
	}
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("parser returned no model")
	}
	debug.Log("engine", "model loaded", "commands", len(model.Commands), "warnings", len(rep.Warnings()))
	return model, nil
}

// execute solves a single command and times the engine call.
func (e *Engine) execute(ctx context.Context, m *solver.Model, cmd solver.Command, opts solver.Options) (outcome, error) {
	o := outcome{command: cmd.String()}

	start := e.cfg.now()
	sol, err := e.solver.Solve(ctx, m, cmd, opts)
	o.elapsed = e.cfg.now().Sub(start)
	if err == nil && sol == nil {
		err = fmt.Errorf("engine returned no solution")
	}
	if err != nil {
		debug.Log("engine", "command failed", "command", o.command, "error", err.Error())
		return o, err
	}

	o.solution = sol
	// Responses name the default backend whatever the solution reports.
	o.backend = string(solver.DefaultBackend)
	debug.Log("engine", "command solved", "command", o.command,
		"satisfiable", sol.Satisfiable(), "elapsed", o.elapsed)
	return o, nil
}

// aggregate turns a finished batch into the response. Any panic while
// assembling it is reported as an internal error.
func (e *Engine) aggregate(b batch, opts solver.Options) (resp *api.SolveResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, classify(stageAggregate, fmt.Errorf("%v", r))
		}
	}()
	return b.response(opts), nil
}
