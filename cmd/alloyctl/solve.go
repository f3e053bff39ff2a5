package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rhuss/alloyrpc/pkg/api"
)

type solveFlags struct {
	command   string
	solver    string
	format    string
	symmetry  bool
	unrolls   int32
	skolem    int32
	coreMin   int32
	coreGran  int32
	noOverflow bool
	raw       bool
}

func newSolveCmd() *cobra.Command {
	var f solveFlags

	cmd := &cobra.Command{
		Use:   "solve <file|->",
		Short: "Solve a command of a model",
		Long: `Solve parses the model in the given file (or stdin for "-") and runs one of
its commands. Use --command "*" to run every command in order.

Engine options are only sent when at least one option flag is given; otherwise
the engine defaults apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := readModel(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			req := buildSolveRequest(model, f, cmd.Flags())

			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if f.raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.SolutionData)
				return err
			}
			return renderSolve(cmd.OutOrStdout(), resp)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.command, "command", "", `command to run: label, index, or "*" for all (default first)`)
	flags.StringVar(&f.solver, "solver", "", "SAT backend (sat4j, minisat, glucose, lingeling, plingeling, cryptominisat)")
	flags.StringVar(&f.format, "format", "text", "solution format (json, xml, text, table)")
	flags.BoolVar(&f.symmetry, "symmetry", true, "enable symmetry breaking")
	flags.Int32Var(&f.unrolls, "unrolls", 0, "recursion unroll depth")
	flags.Int32Var(&f.skolem, "skolem-depth", 0, "skolemization depth")
	flags.Int32Var(&f.coreMin, "core-minimization", 0, "unsat core minimization strategy")
	flags.Int32Var(&f.coreGran, "core-granularity", 0, "unsat core granularity")
	flags.BoolVar(&f.noOverflow, "no-overflow", false, "forbid integer overflow")
	flags.BoolVar(&f.raw, "raw", false, "print only the solution data")

	return cmd
}

// optionFlags are the flags that cause SolverOptions to be sent.
var optionFlags = []string{"symmetry", "unrolls", "skolem-depth", "core-minimization", "core-granularity", "no-overflow"}

func buildSolveRequest(model string, f solveFlags, flags *pflag.FlagSet) *api.SolveRequest {
	req := &api.SolveRequest{
		ModelContent: model,
		Command:      f.command,
		SolverType:   api.ParseSolverType(f.solver),
		OutputFormat: api.ParseOutputFormat(f.format),
	}
	for _, name := range optionFlags {
		if flags.Changed(name) {
			req.SolverOptions = &api.SolverOptions{
				Unrolls:          f.unrolls,
				SkolemDepth:      f.skolem,
				CoreMinimization: f.coreMin,
				CoreGranularity:  f.coreGran,
				SymmetryBreaking: f.symmetry,
				NoOverflow:       f.noOverflow,
			}
			break
		}
	}
	return req
}

func readModel(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading model: %w", err)
	}
	return string(data), nil
}
