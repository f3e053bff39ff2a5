// Package solver defines the contract between the solve service and the
// external model engine.
//
// The engine is a black box that offers two primitives: Parser turns model
// source text into a Model with an ordered list of declared commands, and
// Engine solves one command of a parsed model. Solutions are opaque handles
// exposing satisfiability, scope metadata and two renderings.
//
// The package also owns the backend identifier table and the Registry of
// backends installed on the host. The registry is filled once at startup
// and only read afterwards.
package solver
