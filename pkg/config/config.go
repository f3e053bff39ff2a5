// Package config provides unified configuration for the alloyrpc service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML or TOML config file (discovered or explicitly specified)
//  3. Environment variable overrides (ALLOYRPC_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the alloyrpc service.
type Config struct {
	Server        ServerConfig        `yaml:"server" toml:"server"`
	Engine        EngineConfig        `yaml:"engine" toml:"engine"`
	Solver        SolverConfig        `yaml:"solver" toml:"solver"`
	Limits        LimitsConfig        `yaml:"limits" toml:"limits"`
	MCP           MCPConfig           `yaml:"mcp" toml:"mcp"`
	Observability ObservabilityConfig `yaml:"observability" toml:"observability"`
	Debug         DebugConfig         `yaml:"debug" toml:"debug"`
}

// ServerConfig holds listener settings for the gRPC and HTTP surfaces.
type ServerConfig struct {
	GRPCPort        int      `yaml:"grpc_port" toml:"grpc_port"`               // default: 50051
	HTTPPort        int      `yaml:"http_port" toml:"http_port"`               // default: 8080
	MaxBodySize     int64    `yaml:"max_body_size" toml:"max_body_size"`       // default: 8 MiB
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"` // default: 30s
}

// EngineConfig holds request-handling settings of the core engine.
type EngineConfig struct {
	Version             string   `yaml:"version" toml:"version"`                             // default: engine.DefaultVersion
	BuildDate           string   `yaml:"build_date" toml:"build_date"`                       // default: version
	MaxModelBytes       int      `yaml:"max_model_bytes" toml:"max_model_bytes"`             // default: 4 MiB
	Backends            []string `yaml:"backends" toml:"backends"`                           // static override of installed backends
	MaxConcurrentSolves int      `yaml:"max_concurrent_solves" toml:"max_concurrent_solves"` // 0 means unlimited
}

// SolverConfig holds the model engine sidecar connection.
type SolverConfig struct {
	URL        string   `yaml:"url" toml:"url"`                   // required
	APIKey     string   `yaml:"api_key" toml:"api_key"`           // optional
	APIKeyFile string   `yaml:"api_key_file" toml:"api_key_file"` // _file variant for api_key
	Timeout    Duration `yaml:"timeout" toml:"timeout"`           // default: 10m
}

// LimitsConfig holds per-client rate limiting for Solve.
type LimitsConfig struct {
	RequestsPerSecond float64  `yaml:"requests_per_second" toml:"requests_per_second"` // 0 disables
	Burst             int      `yaml:"burst" toml:"burst"`
	IdleTTL           Duration `yaml:"idle_ttl" toml:"idle_ttl"` // default: 10m
}

// MCPConfig holds the MCP tool endpoint settings.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"` // default: false
	Path    string `yaml:"path" toml:"path"`       // default: "/mcp"
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"` // default: true
	Path    string `yaml:"path" toml:"path"`       // default: "/metrics"
}

// DebugConfig holds logging settings. ALLOYRPC_DEBUG and
// ALLOYRPC_LOG_LEVEL take precedence over these at debug.Init.
type DebugConfig struct {
	Categories string `yaml:"categories" toml:"categories"`
	Level      string `yaml:"level" toml:"level"`   // default: INFO
	Format     string `yaml:"format" toml:"format"` // "text" or "json", default: "text"
}

// Duration is a time.Duration read from strings such as "30s" in both YAML
// and TOML files.
type Duration time.Duration

// D returns d as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// String formats d like time.Duration.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText encodes d as a duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			GRPCPort:        50051,
			HTTPPort:        8080,
			MaxBodySize:     8 << 20,
			ShutdownTimeout: Duration(30 * time.Second),
		},
		Engine: EngineConfig{
			MaxModelBytes: 4 << 20,
		},
		Solver: SolverConfig{
			Timeout: Duration(10 * time.Minute),
		},
		Limits: LimitsConfig{
			IdleTTL: Duration(10 * time.Minute),
		},
		MCP: MCPConfig{
			Path: "/mcp",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Debug: DebugConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}
