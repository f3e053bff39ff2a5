package solver

import (
	"context"
	"fmt"
)

// Parser loads model source text. Non-fatal diagnostics go to the reporter;
// a syntax or type failure is returned as a *ParseError.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Parser interface {
	Parse(ctx context.Context, text string, rep Reporter) (*Model, error)
}

// Engine solves a single command of a parsed model.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Engine interface {
	Solve(ctx context.Context, m *Model, cmd Command, opts Options) (Solution, error)
}

// Model is a parsed model. Commands are in declaration order; if the source
// declares none the parser synthesizes a single command labeled "Default".
type Model struct {
	// Source is the text the model was parsed from.
	Source string

	// Commands lists the declared run and check commands.
	Commands []Command

	// Handle is collaborator-private state. The service never inspects it.
	Handle any
}

// CommandKind distinguishes run and check commands.
type CommandKind string

const (
	KindRun   CommandKind = "run"
	KindCheck CommandKind = "check"
)

// Command is one declared run or check directive.
type Command struct {
	// Index is the zero-based position in Model.Commands.
	Index int

	Kind  CommandKind
	Label string

	// Display is the human-readable form, e.g. "Run show for 3".
	Display string
}

// String returns the display form of the command.
func (c Command) String() string {
	if c.Display != "" {
		return c.Display
	}
	kind := "Run"
	if c.Kind == KindCheck {
		kind = "Check"
	}
	return fmt.Sprintf("%s %s", kind, c.Label)
}

// Solution is the result of solving one command.
type Solution interface {
	Satisfiable() bool
	Bitwidth() int
	MaxSeq() int
	Unrolls() int
	Incremental() bool

	// Backend names the backend that produced the solution. It travels
	// over the sidecar wire only; solve responses always report the
	// default backend.
	Backend() string

	// String returns the engine's default textual rendering.
	String() string

	// Table returns the engine's tabular rendering.
	Table() string
}

// SolutionData holds the plain values behind a Solution. Collaborators
// that receive solutions over the wire decode into it.
type SolutionData struct {
	Satisfiable bool   `json:"satisfiable"`
	Bitwidth    int    `json:"bitwidth"`
	MaxSeq      int    `json:"max_seq"`
	Unrolls     int    `json:"unrolls"`
	Incremental bool   `json:"incremental"`
	Backend     string `json:"backend"`
	Text        string `json:"text"`
	Table       string `json:"table"`
}

// NewSolution wraps d as a Solution.
func NewSolution(d SolutionData) Solution {
	return staticSolution{d: d}
}

type staticSolution struct {
	d SolutionData
}

func (s staticSolution) Satisfiable() bool { return s.d.Satisfiable }
func (s staticSolution) Bitwidth() int     { return s.d.Bitwidth }
func (s staticSolution) MaxSeq() int       { return s.d.MaxSeq }
func (s staticSolution) Unrolls() int      { return s.d.Unrolls }
func (s staticSolution) Incremental() bool { return s.d.Incremental }
func (s staticSolution) Backend() string   { return s.d.Backend }
func (s staticSolution) String() string    { return s.d.Text }
func (s staticSolution) Table() string     { return s.d.Table }
