package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rhuss/alloyrpc/pkg/api"
	"github.com/rhuss/alloyrpc/pkg/solver"
)

// outcome is the result of executing one command.
type outcome struct {
	command  string
	elapsed  time.Duration
	solution solver.Solution // nil when the solve failed
	backend  string
	err      string
}

func (o outcome) satisfiable() bool {
	return o.solution != nil && o.solution.Satisfiable()
}

// batch is the running aggregate of an ALL-commands run. Values are never
// mutated; add returns the next aggregate.
type batch struct {
	count       int
	satisfiable bool
	elapsed     time.Duration
	backend     string
	last        *outcome // last outcome that produced a solution
	outcomes    []outcome
	transcript  []string
}

// add folds o and its rendered solution into the aggregate.
func (b batch) add(o outcome, rendered string) batch {
	next := b
	next.count++
	next.satisfiable = b.satisfiable || o.satisfiable()
	next.elapsed = b.elapsed + o.elapsed
	next.backend = o.backend
	if o.solution != nil {
		next.last = &o
	}
	next.outcomes = append(slices.Clip(b.outcomes), o)
	next.transcript = append(slices.Clip(b.transcript), transcriptBlock(b.count, o, rendered))
	return next
}

// transcriptBlock renders the section for the i-th (zero-based) command.
func transcriptBlock(i int, o outcome, rendered string) string {
	var sb strings.Builder
	if i > 0 {
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "--- Command %d ---\n", i+1)
	fmt.Fprintf(&sb, "Command: %s\n", o.command)
	fmt.Fprintf(&sb, "Satisfiable: %t\n", o.satisfiable())
	if rendered != "" {
		sb.WriteString(rendered)
		sb.WriteString("\n")
	}
	if o.err != "" {
		fmt.Fprintf(&sb, "Error: %s\n", o.err)
	}
	return sb.String()
}

// executedText describes the commands an aggregate covers.
func (b batch) executedText() string {
	if b.count == 0 {
		return "0 commands"
	}
	return fmt.Sprintf("All %d commands", b.count)
}

// solveAll runs every command of m in declared order. A failing command is
// recorded in the transcript and does not stop the run.
func (e *Engine) solveAll(ctx context.Context, m *solver.Model, opts solver.Options, format api.OutputFormat) batch {
	acc := batch{backend: unknownBackend}
	for _, cmd := range m.Commands {
		o, err := e.execute(ctx, m, cmd, opts)
		if err != nil {
			o.backend = unknownBackend
			o.err = classify(stageSolve, err).Message
		}
		acc = acc.add(o, renderSolution(o.solution, format, e.cfg.buildDate()))
	}
	return acc
}

// response builds the single aggregated SolveResponse.
func (b batch) response(opts solver.Options) *api.SolveResponse {
	summary := outcome{
		command: b.executedText(),
		elapsed: b.elapsed,
		backend: b.backend,
	}
	if b.last != nil {
		summary.solution = b.last.solution
	}

	md := newMetadata(summary, opts)
	return &api.SolveResponse{
		Satisfiable:  b.satisfiable,
		SolutionData: strings.Join(b.transcript, ""),
		Metadata:     md,
	}
}
