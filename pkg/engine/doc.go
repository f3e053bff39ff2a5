// Package engine implements the solve orchestration core of alloyrpc.
//
// The Engine struct implements transport.SolverService. A Solve call runs
// a fixed pipeline: validate the request, check that the requested backend
// is installed, load the model through the solver.Parser, resolve the
// command specifier, translate the wire options, solve one command or
// every command in declared order, and render the response. Failures at
// each stage are classified into the api error taxonomy; blank model text
// is reported in-band as an ordinary response instead.
//
// The engine holds only read-only configuration and is safe for
// concurrent use. All per-request state lives on the call stack.
package engine
