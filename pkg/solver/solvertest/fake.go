// Package solvertest provides a deterministic in-memory model engine for
// tests and local development.
//
// The fake parses just the command structure of a model (see Scan) and
// decides satisfiability by rule: run commands are satisfiable, check
// commands are not (no counterexample), unless overridden per label.
package solvertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rhuss/alloyrpc/pkg/solver"
)

// Engine is a fake that implements both solver.Parser and solver.Engine.
// The zero value is ready to use.
type Engine struct {
	// Verdicts overrides satisfiability per command label.
	Verdicts map[string]bool

	// Failures makes Solve fail for the given command labels.
	Failures map[string]error

	// ParseErr, when set, is returned by every Parse call.
	ParseErr error

	// Warnings are reported to the parse reporter on every Parse call.
	Warnings []string

	mu     sync.Mutex
	parses int
	solves []string
}

var (
	_ solver.Parser = (*Engine)(nil)
	_ solver.Engine = (*Engine)(nil)
)

// Parse scans the model text for commands.
func (e *Engine) Parse(_ context.Context, text string, rep solver.Reporter) (*solver.Model, error) {
	e.mu.Lock()
	e.parses++
	e.mu.Unlock()

	if e.ParseErr != nil {
		return nil, e.ParseErr
	}
	cmds, err := Scan(text)
	if err != nil {
		return nil, err
	}
	if rep != nil {
		for _, w := range e.Warnings {
			rep.Warning(w)
		}
	}
	return &solver.Model{Source: text, Commands: cmds}, nil
}

// Solve produces a deterministic solution for cmd.
func (e *Engine) Solve(ctx context.Context, m *solver.Model, cmd solver.Command, opts solver.Options) (solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.solves = append(e.solves, cmd.Label)
	e.mu.Unlock()

	if err, ok := e.Failures[cmd.Label]; ok {
		return nil, err
	}

	sat := cmd.Kind == solver.KindRun
	if v, ok := e.Verdicts[cmd.Label]; ok {
		sat = v
	}

	backend := opts.Backend
	if backend == "" {
		backend = solver.DefaultBackend
	}

	return solver.NewSolution(solver.SolutionData{
		Satisfiable: sat,
		Bitwidth:    4,
		MaxSeq:      4,
		Unrolls:     opts.Unrolls,
		Incremental: false,
		Backend:     string(backend),
		Text:        renderText(m, cmd, sat),
		Table:       renderTable(cmd, sat),
	}), nil
}

// Parses returns the number of Parse calls.
func (e *Engine) Parses() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parses
}

// Solved returns the labels passed to Solve, in call order.
func (e *Engine) Solved() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.solves))
	copy(out, e.solves)
	return out
}

func renderText(m *solver.Model, cmd solver.Command, sat bool) string {
	if !sat {
		return "---OUTCOME---\nUnsatisfiable.\n"
	}
	var b strings.Builder
	b.WriteString("---INSTANCE---\n")
	b.WriteString("integers={-8, -7, -6, -5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7}\n")
	fmt.Fprintf(&b, "command=\"%s\"\n", cmd.Label)
	for _, sig := range sigNames(m.Source) {
		fmt.Fprintf(&b, "this/%s={%s$0}\n", sig, sig)
	}
	return b.String()
}

func renderTable(cmd solver.Command, sat bool) string {
	if !sat {
		return ""
	}
	return fmt.Sprintf("┌───────────┐\n│ %-9s │\n└───────────┘\n", cmd.Label)
}

// sigNames returns the names declared with "sig", in source order.
func sigNames(src string) []string {
	var names []string
	fields := strings.FieldsFunc(stripComments(src), func(r rune) bool {
		return !isIdent(r)
	})
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "sig" {
			names = append(names, fields[i+1])
		}
	}
	return names
}
