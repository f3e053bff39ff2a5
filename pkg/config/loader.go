package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rhuss/alloyrpc/pkg/debug"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. Config file (explicit path, ALLOYRPC_CONFIG env, ./config.yaml, /etc/alloyrpc/config.yaml)
//  3. ALLOYRPC_* environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		debug.Log("config", "loading config file", "path", filePath)
		if err := loadFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. ALLOYRPC_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/alloyrpc/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("ALLOYRPC_CONFIG"); envPath != "" {
		return envPath
	}
	candidates := []string{
		"config.yaml",
		"/etc/alloyrpc/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFile reads a config file into cfg. Files ending in .toml are parsed
// as TOML, everything else as YAML. Fields absent from the file retain
// their current (default) values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps ALLOYRPC_* environment variables to config fields.
// Malformed numeric, boolean or duration values are reported rather than
// silently ignored.
func applyEnvOverrides(cfg *Config) error {
	e := envReader{}

	e.int("ALLOYRPC_GRPC_PORT", &cfg.Server.GRPCPort)
	e.int("ALLOYRPC_HTTP_PORT", &cfg.Server.HTTPPort)
	e.int64("ALLOYRPC_MAX_BODY_SIZE", &cfg.Server.MaxBodySize)
	e.duration("ALLOYRPC_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	e.str("ALLOYRPC_VERSION", &cfg.Engine.Version)
	e.str("ALLOYRPC_BUILD_DATE", &cfg.Engine.BuildDate)
	e.int("ALLOYRPC_MAX_MODEL_BYTES", &cfg.Engine.MaxModelBytes)
	e.int("ALLOYRPC_MAX_CONCURRENT_SOLVES", &cfg.Engine.MaxConcurrentSolves)
	if v := os.Getenv("ALLOYRPC_BACKENDS"); v != "" {
		cfg.Engine.Backends = splitList(v)
	}

	e.str("ALLOYRPC_SOLVER_URL", &cfg.Solver.URL)
	e.str("ALLOYRPC_SOLVER_API_KEY", &cfg.Solver.APIKey)
	e.str("ALLOYRPC_SOLVER_API_KEY_FILE", &cfg.Solver.APIKeyFile)
	e.duration("ALLOYRPC_SOLVER_TIMEOUT", &cfg.Solver.Timeout)

	e.float("ALLOYRPC_RATE_LIMIT_RPS", &cfg.Limits.RequestsPerSecond)
	e.int("ALLOYRPC_RATE_LIMIT_BURST", &cfg.Limits.Burst)

	e.bool("ALLOYRPC_MCP_ENABLED", &cfg.MCP.Enabled)
	e.bool("ALLOYRPC_METRICS_ENABLED", &cfg.Observability.Metrics.Enabled)

	e.str("ALLOYRPC_LOG_FORMAT", &cfg.Debug.Format)

	return e.err
}

// envReader applies typed env overrides, keeping the first parse error.
type envReader struct {
	err error
}

func (e *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != "" && e.err == nil
}

func (e *envReader) fail(key, v string, err error) {
	e.err = fmt.Errorf("%s=%q: %w", key, v, err)
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) int64(key string, dst *int64) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) bool(key string, dst *bool) {
	if v, ok := e.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(key string, dst *Duration) {
	if v, ok := e.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = Duration(d)
	}
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// If the value field is empty and the file field is set, the file is read,
// whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// solver.api_key_file -> solver.api_key
	if cfg.Solver.APIKeyFile != "" && cfg.Solver.APIKey == "" {
		val, err := readSecretFile(cfg.Solver.APIKeyFile)
		if err != nil {
			return fmt.Errorf("solver.api_key_file: %w", err)
		}
		cfg.Solver.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
