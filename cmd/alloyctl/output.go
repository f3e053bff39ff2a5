package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/rhuss/alloyrpc/pkg/api"
)

var (
	satStyle   = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	unsatStyle = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	errStyle   = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	keyStyle   = pterm.NewStyle(pterm.FgLightCyan)
)

func renderSolve(w io.Writer, resp *api.SolveResponse) error {
	var sb strings.Builder

	switch {
	case resp.ErrorMessage != "":
		sb.WriteString(errStyle.Sprint("ERROR") + " " + resp.ErrorMessage + "\n")
	case resp.Satisfiable:
		sb.WriteString(satStyle.Sprint("SATISFIABLE") + "\n")
	default:
		sb.WriteString(unsatStyle.Sprint("UNSATISFIABLE") + "\n")
	}

	if md := resp.Metadata; md != nil {
		field(&sb, "Command", md.ExecutedCommand)
		field(&sb, "Solver", md.SolverUsed)
		field(&sb, "Time", (time.Duration(md.SolvingTimeMs) * time.Millisecond).String())
		field(&sb, "Scope", fmt.Sprintf("bitwidth=%d max_seq=%d unrolls=%d skolem_depth=%d", md.Bitwidth, md.MaxSeq, md.Unrolls, md.SkolemDepth))
		field(&sb, "Symmetry", fmt.Sprintf("%t", md.SymmetryBreaking))
	}

	if resp.SolutionData != "" {
		sb.WriteString("\n" + resp.SolutionData)
		if !strings.HasSuffix(resp.SolutionData, "\n") {
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func renderPing(w io.Writer, resp *api.PingResponse) error {
	var sb strings.Builder
	field(&sb, "Message", resp.Message)
	field(&sb, "Version", resp.Version)
	field(&sb, "Server time", time.UnixMilli(resp.Timestamp).UTC().Format(time.RFC3339))

	items := make([]pterm.BulletListItem, 0, len(resp.AvailableSolvers))
	for _, s := range resp.AvailableSolvers {
		items = append(items, pterm.BulletListItem{Level: 0, Text: s})
	}
	list, err := pterm.DefaultBulletList.WithItems(items).Srender()
	if err != nil {
		return err
	}
	sb.WriteString(keyStyle.Sprint("Solvers:") + "\n" + list)

	_, err = io.WriteString(w, sb.String())
	return err
}

func field(sb *strings.Builder, key, value string) {
	sb.WriteString(keyStyle.Sprint(key+":") + " " + value + "\n")
}
