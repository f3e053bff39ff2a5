package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/engine"
	"github.com/rhuss/alloyrpc/pkg/solver"
	"github.com/rhuss/alloyrpc/pkg/solver/solvertest"
	transportgrpc "github.com/rhuss/alloyrpc/pkg/transport/grpc"
)

func init() {
	pterm.DisableStyling()
}

// startService serves a fake-backed engine over gRPC on a loopback port
// and points the CLI at it.
func startService(t *testing.T) {
	t.Helper()

	fake := &solvertest.Engine{}
	eng, err := engine.New(fake, fake, solver.NewRegistry(solver.BackendMiniSat), engine.Config{})
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := transportgrpc.NewServer(eng)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	addr = ln.Addr().String()
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	startService(t)

	path := filepath.Join(t.TempDir(), "model.als")
	if err := os.WriteFile(path, []byte("sig A {}\nrun show {} for 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "solve", path, "--addr", addr, "--solver", "minisat")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for _, want := range []string{"SATISFIABLE", "Command: Run show for 3", "Solver: sat4j"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSolveCommandStdinAll(t *testing.T) {
	startService(t)

	out, err := execute(t, "run a {}\ncheck b for 2\n", "solve", "-", "--addr", addr, "--command", "*")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(out, "Command: All 2 commands") {
		t.Errorf("output:\n%s", out)
	}
}

func TestSolveCommandError(t *testing.T) {
	startService(t)

	_, err := execute(t, "run a {}", "solve", "-", "--addr", addr, "--solver", "glucose")
	if err == nil {
		t.Fatal("expected error for unavailable backend")
	}
	apiErr, ok := err.(*api.APIError)
	if !ok || apiErr.Type != api.ErrorTypeUnimplemented {
		t.Errorf("err = %#v, want unimplemented APIError", err)
	}
}

func TestPingCommand(t *testing.T) {
	startService(t)

	out, err := execute(t, "", "ping", "--addr", addr, "--message", "hi")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	for _, want := range []string{"Message: hi", "Version: " + engine.DefaultVersion, "sat4j", "minisat"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "alloyctl "+Version+"\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestBuildSolveRequest(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantOptions bool
		wantSym     bool
	}{
		{"no option flags", nil, false, false},
		{"symmetry off", []string{"--symmetry=false"}, true, false},
		{"unrolls only", []string{"--unrolls", "4"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newSolveCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			var f solveFlags
			f.symmetry, _ = cmd.Flags().GetBool("symmetry")
			f.unrolls, _ = cmd.Flags().GetInt32("unrolls")
			f.format, _ = cmd.Flags().GetString("format")

			req := buildSolveRequest("m", f, cmd.Flags())
			if req.OutputFormat != api.OutputFormatText {
				t.Errorf("output_format = %v, want text default", req.OutputFormat)
			}
			if (req.SolverOptions != nil) != tt.wantOptions {
				t.Fatalf("options sent = %v, want %v", req.SolverOptions != nil, tt.wantOptions)
			}
			if tt.wantOptions && req.SolverOptions.SymmetryBreaking != tt.wantSym {
				t.Errorf("symmetry_breaking = %v, want %v", req.SolverOptions.SymmetryBreaking, tt.wantSym)
			}
		})
	}
}

func TestRenderSolve(t *testing.T) {
	tests := []struct {
		name string
		resp *api.SolveResponse
		want []string
	}{
		{
			name: "unsat",
			resp: &api.SolveResponse{Metadata: &api.SolutionMetadata{ExecutedCommand: "Check ok for 2", SolverUsed: "sat4j", SolvingTimeMs: 1500}},
			want: []string{"UNSATISFIABLE", "Command: Check ok for 2", "Time: 1.5s"},
		},
		{
			name: "soft error",
			resp: &api.SolveResponse{ErrorMessage: api.EmptyModelMessage},
			want: []string{"ERROR " + api.EmptyModelMessage},
		},
		{
			name: "solution appended",
			resp: &api.SolveResponse{Satisfiable: true, SolutionData: "A = {A$0}"},
			want: []string{"SATISFIABLE\n", "\nA = {A$0}\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := renderSolve(&buf, tt.resp); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestReadModelMissingFile(t *testing.T) {
	if _, err := readModel(filepath.Join(t.TempDir(), "nope.als"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
