package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rhuss/alloyrpc/pkg/solver"
)

// Validate checks the configuration for required fields and valid values.
// All failures are reported together, each with its field path.
func (c *Config) Validate() error {
	var errs []error

	// solver.url is required.
	if c.Solver.URL == "" {
		errs = append(errs, fmt.Errorf("solver.url is required"))
	}
	if c.Solver.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("solver.timeout must be > 0, got %s", c.Solver.Timeout))
	}

	if !validPort(c.Server.GRPCPort) {
		errs = append(errs, fmt.Errorf("server.grpc_port must be in 1..65535, got %d", c.Server.GRPCPort))
	}
	if !validPort(c.Server.HTTPPort) {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if c.Server.GRPCPort == c.Server.HTTPPort {
		errs = append(errs, fmt.Errorf("server.grpc_port and server.http_port must differ, both are %d", c.Server.GRPCPort))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be >= 0, got %s", c.Server.ShutdownTimeout))
	}

	if c.Engine.MaxModelBytes < 0 {
		errs = append(errs, fmt.Errorf("engine.max_model_bytes must be >= 0, got %d", c.Engine.MaxModelBytes))
	}
	if c.Engine.MaxConcurrentSolves < 0 {
		errs = append(errs, fmt.Errorf("engine.max_concurrent_solves must be >= 0, got %d", c.Engine.MaxConcurrentSolves))
	}
	for i, b := range c.Engine.Backends {
		if !slices.Contains(solver.KnownBackends, solver.Backend(strings.ToLower(strings.TrimSpace(b)))) {
			errs = append(errs, fmt.Errorf("engine.backends[%d]: unknown backend %q", i, b))
		}
	}

	if c.Limits.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("limits.requests_per_second must be >= 0, got %g", c.Limits.RequestsPerSecond))
	}
	if c.Limits.RequestsPerSecond > 0 && c.Limits.Burst <= 0 {
		errs = append(errs, fmt.Errorf("limits.burst must be > 0 when rate limiting is enabled, got %d", c.Limits.Burst))
	}

	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		errs = append(errs, fmt.Errorf("mcp.path must start with \"/\", got %q", c.MCP.Path))
	}
	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}
	if c.MCP.Enabled && c.Observability.Metrics.Enabled && c.MCP.Path == c.Observability.Metrics.Path {
		errs = append(errs, fmt.Errorf("mcp.path and observability.metrics.path must differ, both are %q", c.MCP.Path))
	}

	switch strings.ToLower(c.Debug.Format) {
	case "", "text", "json":
		// valid
	default:
		errs = append(errs, fmt.Errorf("debug.format must be \"text\" or \"json\", got %q", c.Debug.Format))
	}

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
