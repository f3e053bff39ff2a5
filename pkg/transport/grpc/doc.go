// Package grpc serves a transport.SolverService as the gRPC service
// alloy.solver.v1.SolverService.
//
// Messages are the pkg/api wire types encoded with a JSON codec registered
// under the content-subtype "json", so clients call with
// grpc.CallContentSubtype("json"). The standard gRPC health service and
// server reflection are registered next to it and use the default
// protobuf codec.
//
// Failures are returned as gRPC status errors with the code derived from
// the api error type. The api error code and param travel in the
// x-error-code and x-error-param trailers.
package grpc
