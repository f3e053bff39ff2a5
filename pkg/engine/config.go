package engine

import (
	"time"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// DefaultVersion is the version reported by Ping and the XML banner.
const DefaultVersion = "6.3.0"

// Config holds configuration for the core engine.
type Config struct {
	// Version is reported by Ping. Empty means DefaultVersion.
	Version string

	// BuildDate is written into the XML rendering's banner. Empty means
	// the effective Version is used.
	BuildDate string

	// Validation limits applied to incoming requests.
	Validation api.ValidationConfig

	// Now returns the current time. Nil means time.Now. Tests inject a
	// deterministic clock here.
	Now func() time.Time
}

func (c Config) version() string {
	if c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}

func (c Config) buildDate() string {
	if c.BuildDate == "" {
		return c.version()
	}
	return c.BuildDate
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
