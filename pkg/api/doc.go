// Package api defines the wire protocol types for the alloyrpc solve service.
//
// The types in this package are shared by every transport (gRPC, HTTP and
// MCP) and by the engine. They carry no behavior beyond JSON encoding,
// enum parsing and request validation, and perform no I/O.
//
// Core types:
//   - [SolveRequest]: model source text plus solver configuration
//   - [SolveResponse]: satisfiability verdict, rendered solution and metadata
//   - [PingRequest], [PingResponse]: liveness and introspection probe
//   - [SolverType], [OutputFormat]: closed enums with tolerant parsing
//   - [APIError]: structured error with type, code, param, and message
//
// Enum values travel as their canonical names ("SOLVER_TYPE_MINISAT",
// "OUTPUT_FORMAT_TABLE"). Decoding also accepts short lowercase names and
// raw integers. Unknown values decode to the UNSPECIFIED member instead of
// failing, so a client built against a newer enum never breaks the server.
package api
