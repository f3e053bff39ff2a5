// Package debug provides category-based debug logging for alloyrpc.
//
// Categories select which subsystems emit debug records and come from
// ALLOYRPC_DEBUG or the debug.categories config key. The slog level comes
// from ALLOYRPC_LOG_LEVEL or debug.level. Environment wins over config.
//
//	debug.Log("solver", "sidecar response", "path", path, "status", code)
//	debug.Trace("solver", "sidecar request", "body", debug.Truncate(body, 2048))
//
// Category "all" enables every category.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// LevelTrace is below slog.LevelDebug. Sidecar request bodies are only
// logged at this level.
const LevelTrace = slog.LevelDebug - 4

// Known lists the categories used by alloyrpc packages.
var Known = []string{"config", "engine", "grpc", "mcp", "solver", "transport"}

var enabled atomic.Pointer[map[string]bool]

func init() {
	set(parseCategories(os.Getenv("ALLOYRPC_DEBUG")))
}

func set(m map[string]bool) {
	enabled.Store(&m)
}

// Init installs the process-wide slog logger and the enabled categories.
// It returns the requested categories that no package uses, so that the
// caller can warn about typos.
func Init(configCategories, configLevel, format string) (unknown []string) {
	cats := firstNonEmpty(os.Getenv("ALLOYRPC_DEBUG"), configCategories)
	m := parseCategories(cats)
	set(m)

	level := firstNonEmpty(os.Getenv("ALLOYRPC_LOG_LEVEL"), configLevel, "INFO")
	slog.SetDefault(NewLogger(os.Stderr, format, ParseLevel(level)))

	for c := range m {
		if c != "all" && !slices.Contains(Known, c) {
			unknown = append(unknown, c)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// NewLogger builds a slog.Logger writing to w. Format "json" selects the
// JSON handler, anything else the text handler. LevelTrace records are
// labeled TRACE.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l <= LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	m := *enabled.Load()
	return m["all"] || m[category]
}

// Log emits a DEBUG record tagged with category, if it is enabled.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a TRACE record tagged with category, if it is enabled.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// ParseLevel converts a level name to a slog.Level. Unknown names mean INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the enabled categories in sorted order.
func Categories() []string {
	m := *enabled.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Truncate shortens s to at most maxLen bytes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		if cat = strings.TrimSpace(strings.ToLower(cat)); cat != "" {
			m[cat] = true
		}
	}
	return m
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
