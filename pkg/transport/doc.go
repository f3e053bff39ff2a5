// Package transport defines the handler interface and middleware chain
// shared by the alloyrpc transports.
//
// The transports (gRPC, HTTP/JSON and MCP) decode incoming requests into
// the wire types defined in pkg/api, dispatch them to a SolverService and
// encode the result back to the client. None of them knows how a solve is
// performed.
//
// # Handler Interface
//
// SolverService is the contract between the transports and the core
// engine. It has two unary operations, Solve and Ping. SolverServiceFuncs
// adapts plain functions to the interface, which is how middleware and
// tests build services.
//
// # Middleware
//
// The middleware chain wraps SolverService with cross-cutting concerns.
// Built-in middleware provides panic recovery, request ID assignment,
// structured logging via log/slog, per-client rate limiting and a cap on
// concurrent solves.
//
// # Errors
//
// Handlers return *api.APIError for classified failures. HTTPStatusFromError
// and GRPCCodeFromError map the error type to the status each transport
// reports.
package transport
