package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// withCategories enables cats for the duration of the test.
func withCategories(t *testing.T, cats string) {
	t.Helper()
	orig := enabled.Load()
	set(parseCategories(cats))
	t.Cleanup(func() { enabled.Store(orig) })
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"solver", []string{"solver"}},
		{" solver , ENGINE ", []string{"engine", "solver"}},
		{"grpc,,mcp,grpc", []string{"grpc", "mcp"}},
	}

	for _, tt := range tests {
		got := parseCategories(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseCategories(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for _, c := range tt.want {
			if !got[c] {
				t.Errorf("parseCategories(%q) missing %q", tt.input, c)
			}
		}
	}
}

func TestEnabled(t *testing.T) {
	withCategories(t, "solver,grpc")

	for cat, want := range map[string]bool{"solver": true, "grpc": true, "mcp": false, "all": false} {
		if got := Enabled(cat); got != want {
			t.Errorf("Enabled(%q) = %v, want %v", cat, got, want)
		}
	}
}

func TestEnabledAll(t *testing.T) {
	withCategories(t, "all")

	for _, cat := range Known {
		if !Enabled(cat) {
			t.Errorf("Enabled(%q) = false with all", cat)
		}
	}
}

func TestInitReportsUnknownCategories(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })
	withCategories(t, "")
	t.Setenv("ALLOYRPC_DEBUG", "")
	t.Setenv("ALLOYRPC_LOG_LEVEL", "")

	unknown := Init("engine,enigne,all,grcp", "debug", "text")
	if strings.Join(unknown, ",") != "enigne,grcp" {
		t.Errorf("unknown = %v, want [enigne grcp]", unknown)
	}
	if !Enabled("engine") {
		t.Error("engine should be enabled from config")
	}
}

func TestInitEnvWins(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })
	withCategories(t, "")
	t.Setenv("ALLOYRPC_DEBUG", "mcp")
	t.Setenv("ALLOYRPC_LOG_LEVEL", "ERROR")

	Init("engine", "DEBUG", "")

	if Enabled("engine") || !Enabled("mcp") {
		t.Errorf("categories = %v, want env value", Categories())
	}
	if slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("WARN should be disabled at env level ERROR")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
}

func TestLogDisabledCategory(t *testing.T) {
	withCategories(t, "engine")

	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(NewLogger(&buf, "text", slog.LevelDebug))
	t.Cleanup(func() { slog.SetDefault(orig) })

	Log("solver", "hidden")
	Log("engine", "shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("disabled category must not log")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "debug=engine") {
		t.Errorf("output = %q", out)
	}
}

func TestTraceLevelLabel(t *testing.T) {
	withCategories(t, "solver")

	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(NewLogger(&buf, "json", LevelTrace))
	t.Cleanup(func() { slog.SetDefault(orig) })

	Trace("solver", "sidecar request")

	if !strings.Contains(buf.String(), `"level":"TRACE"`) {
		t.Errorf("output = %q, want TRACE level label", buf.String())
	}
}

func TestTraceHiddenAtDebug(t *testing.T) {
	withCategories(t, "solver")

	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(NewLogger(&buf, "text", slog.LevelDebug))
	t.Cleanup(func() { slog.SetDefault(orig) })

	Trace("solver", "too verbose")
	if buf.Len() != 0 {
		t.Errorf("trace must not log at DEBUG: %q", buf.String())
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "JSON", slog.LevelInfo).Info("msg", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json format output = %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, "text", slog.LevelInfo).Info("msg", "k", "v")
	if !strings.Contains(buf.String(), "k=v") {
		t.Errorf("text format output = %q", buf.String())
	}
}

func TestCategoriesSorted(t *testing.T) {
	withCategories(t, "transport,config,mcp")

	if got := strings.Join(Categories(), ","); got != "config,mcp,transport" {
		t.Errorf("Categories() = %s", got)
	}
}
