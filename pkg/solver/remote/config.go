package remote

import "time"

// Config holds configuration for the engine sidecar client.
type Config struct {
	// BaseURL is the sidecar URL (e.g., "http://localhost:9091").
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds each HTTP request. Solves can be long; defaults to 10m.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Minute,
	}
}
