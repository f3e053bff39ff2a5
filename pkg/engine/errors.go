package engine

import (
	"errors"
	"fmt"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/solver"
)

// stage names the pipeline step a failure came from.
type stage string

const (
	stageLoad      stage = "load"
	stageResolve   stage = "resolve"
	stageSolve     stage = "solve"
	stageAggregate stage = "aggregate"
)

// classify maps a failure from the given stage to the api taxonomy.
// Errors that already are *api.APIError pass through unchanged.
func classify(st stage, err error) *api.APIError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch st {
	case stageLoad:
		var pe *solver.ParseError
		if errors.As(err, &pe) {
			return api.NewInvalidArgumentError("model_content", "Parse error: "+pe.Error()).
				WithCode(api.CodeParseError)
		}
		return api.NewInternalError("Internal error: loading model: " + err.Error())

	case stageResolve:
		var nf *CommandNotFoundError
		if errors.As(err, &nf) {
			return api.NewInvalidArgumentError("command", nf.Error()).WithCode(api.CodeCommandNotFound)
		}
		if errors.Is(err, ErrNoCommandsAvailable) {
			return api.NewInvalidArgumentError("command", err.Error()).WithCode(api.CodeNoCommandsAvailable)
		}
		return api.NewInvalidArgumentError("command", err.Error())

	case stageSolve:
		return api.NewInternalError("Solve error: " + err.Error()).WithCode(api.CodeSolveFailed)

	default:
		return api.NewInternalError("Internal error: " + err.Error())
	}
}

// unavailableBackend reports a requested backend that is not installed.
func unavailableBackend(b solver.Backend) *api.APIError {
	return &api.APIError{
		Type:    api.ErrorTypeUnimplemented,
		Code:    api.CodeSolverUnavailable,
		Param:   "solver_type",
		Message: fmt.Sprintf("Solver %s is not available on this system", b),
	}
}
