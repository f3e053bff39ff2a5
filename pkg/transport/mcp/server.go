// Package mcp exposes a transport.SolverService as Model Context Protocol
// tools over streamable HTTP.
//
// Two tools are registered: "solve" runs a solve request and returns the
// SolveResponse as JSON text, "ping" reports liveness and installed
// backends. Classified failures come back as tool results with IsError
// set, carrying the api error type and message.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/debug"
	"github.com/rhuss/alloyrpc/pkg/transport"
)

// Config holds the MCP server identity.
type Config struct {
	Name    string
	Version string
}

// DefaultConfig returns the default server identity.
func DefaultConfig() Config {
	return Config{Name: "alloyrpc", Version: "v1.0.0"}
}

// SolveInput is the argument object of the solve tool. Enums are taken as
// names so that tool callers need not know the integer values.
type SolveInput struct {
	ModelContent  string             `json:"model_content" jsonschema:"The model source text"`
	Command       string             `json:"command,omitempty" jsonschema:"Command to run: empty for the first, an index, a label, or * for all"`
	SolverType    string             `json:"solver_type,omitempty" jsonschema:"SAT backend name such as sat4j or minisat"`
	OutputFormat  string             `json:"output_format,omitempty" jsonschema:"Solution rendering: json, xml, text or table"`
	SolverOptions *api.SolverOptions `json:"solver_options,omitempty" jsonschema:"Engine options. Absent means engine defaults"`
}

// Request converts the tool input to a SolveRequest.
func (in SolveInput) Request() *api.SolveRequest {
	return &api.SolveRequest{
		ModelContent:  in.ModelContent,
		Command:       in.Command,
		SolverType:    api.ParseSolverType(in.SolverType),
		OutputFormat:  api.ParseOutputFormat(in.OutputFormat),
		SolverOptions: in.SolverOptions,
	}
}

// PingInput is the argument object of the ping tool.
type PingInput struct {
	Message string `json:"message,omitempty" jsonschema:"Message to echo back"`
}

// NewServer creates an MCP server with the solve and ping tools bound to
// svc. Middleware is applied to svc in the given order.
func NewServer(svc transport.SolverService, cfg Config, middlewares ...transport.Middleware) *mcp.Server {
	if len(middlewares) > 0 {
		svc = transport.Chain(middlewares...)(svc)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "solve",
		Description: "Parse an Alloy model and solve one or all of its run and check commands",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in SolveInput) (*mcp.CallToolResult, struct{}, error) {
		debug.Log("mcp", "solve tool called", "command", in.Command, "solver_type", in.SolverType)
		resp, err := svc.Solve(ctx, in.Request())
		if err != nil {
			return errorResult(err), struct{}{}, nil
		}
		return jsonResult(resp), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Report service version and installed SAT backends",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in PingInput) (*mcp.CallToolResult, struct{}, error) {
		resp, err := svc.Ping(ctx, &api.PingRequest{Message: in.Message})
		if err != nil {
			return errorResult(err), struct{}{}, nil
		}
		return jsonResult(resp), struct{}{}, nil
	})

	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	apiErr := transport.AsAPIError(err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: apiErr.Error()}},
	}
}
