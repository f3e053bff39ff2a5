package engine

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rhuss/alloyrpc/pkg/solver"
)

// ErrNoCommandsAvailable is returned when the default command is requested
// from a model that has none.
var ErrNoCommandsAvailable = errors.New("No commands available in model")

// CommandNotFoundError reports a specifier that matches no command.
type CommandNotFoundError struct {
	Spec string
}

func (e *CommandNotFoundError) Error() string {
	return "Command not found: " + e.Spec
}

// selection is the outcome of resolving a command specifier: either every
// command, or exactly one.
type selection struct {
	all     bool
	command solver.Command
}

// ValidateCommands reports whether m declares at least one command.
func ValidateCommands(m *solver.Model) error {
	if m == nil || len(m.Commands) == 0 {
		return ErrNoCommandsAvailable
	}
	return nil
}

// resolveCommand selects commands from spec:
//   - empty or blank selects the first command
//   - "*" or "all" (any case) selects every command, even when there are none
//   - an integer selects by zero-based index
//   - anything else selects by exact label
//
// Integers are tried before labels, so a command whose label is numeric
// cannot be selected by name.
func resolveCommand(m *solver.Model, spec string) (selection, error) {
	trimmed := strings.TrimSpace(spec)

	if trimmed == "" {
		if err := ValidateCommands(m); err != nil {
			return selection{}, err
		}
		return selection{command: m.Commands[0]}, nil
	}

	if trimmed == "*" || strings.EqualFold(trimmed, "ALL") {
		return selection{all: true}, nil
	}

	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx < 0 || idx >= len(m.Commands) {
			return selection{}, &CommandNotFoundError{Spec: trimmed}
		}
		return selection{command: m.Commands[idx]}, nil
	}

	for _, cmd := range m.Commands {
		if cmd.Label == trimmed {
			return selection{command: cmd}, nil
		}
	}
	return selection{}, &CommandNotFoundError{Spec: trimmed}
}
