// Package remote implements solver.Parser and solver.Engine against an
// engine sidecar over HTTP/JSON.
//
// The sidecar hosts the actual model engine (parser, translator and SAT
// backends) and is stateless: every solve request carries the model source
// and the index of the command to run. Endpoints:
//
//	GET  /v1/backends  installed backend ids
//	POST /v1/parse     {"model"} -> {"commands", "warnings"}; 422 on parse failure
//	POST /v1/solve     {"model", "command", "options"} -> solution
//	GET  /healthz      liveness
//
// Error bodies have the shape {"error": {"message", "line", "column"}}.
package remote
